// Package status tracks timed percentage modifiers and control effects on a unit.
package status

import (
	"fmt"
	"strings"
)

// Type identifies a status effect. A unit carries at most one instance per Type.
type Type int

const (
	None Type = iota
	BuffAt
	BuffDf
	BuffAgi
	DebuffAt
	DebuffDf
	DebuffAgi
	Stun
	Freeze
	Burn
	HealMorale
	ChainDamage
	Custom
)

var typeNames = []string{
	"none",
	"buff_at",
	"buff_df",
	"buff_agi",
	"debuff_at",
	"debuff_df",
	"debuff_agi",
	"stun",
	"freeze",
	"burn",
	"heal_morale",
	"chain_damage",
	"custom",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("status(%d)", int(t))
}

// ParseType converts a snake_case label into a Type.
func ParseType(s string) (Type, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == want {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("unknown status type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// IsBuff reports whether t raises a stat.
func (t Type) IsBuff() bool {
	return t == BuffAt || t == BuffDf || t == BuffAgi
}

// IsDebuff reports whether t lowers a stat.
func (t Type) IsDebuff() bool {
	return t == DebuffAt || t == DebuffDf || t == DebuffAgi
}

// DisablesAction reports whether t prevents the carrier from acting.
func (t Type) DisablesAction() bool {
	return t == Stun || t == Freeze
}
