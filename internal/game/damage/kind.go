// Package damage converts final stats into HP deltas.
package damage

import (
	"fmt"
	"strings"
)

// Kind selects the HP-delta formula of a skill. Values are stable across saves.
type Kind int

const (
	None              Kind = 0
	Physical          Kind = 1
	Magical           Kind = 2
	PenetratePhysical Kind = 4
	PenetrateMagical  Kind = 5
	Fixed             Kind = 6
	MaxHpRate         Kind = 7
)

var kindNames = map[Kind]string{
	None:              "none",
	Physical:          "physical",
	Magical:           "magical",
	PenetratePhysical: "penetrate_physical",
	PenetrateMagical:  "penetrate_magical",
	Fixed:             "fixed",
	MaxHpRate:         "max_hp_rate",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("damage(%d)", int(k))
}

// ParseKind converts a snake_case label into a Kind.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == want {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown damage kind %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsMagical reports whether k scales from MAT against MDF.
func (k Kind) IsMagical() bool {
	return k == Magical || k == PenetrateMagical
}

// IsPenetrating reports whether k ignores part of the defense.
func (k Kind) IsPenetrating() bool {
	return k == PenetratePhysical || k == PenetrateMagical
}
