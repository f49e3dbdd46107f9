package ruleset

import (
	"fmt"
	"strings"

	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/stat"
)

// Multipliers scales each stat; 1.0 leaves it unchanged.
type Multipliers struct {
	HP  float64 `yaml:"hp"`
	AT  float64 `yaml:"at"`
	DF  float64 `yaml:"df"`
	AGI float64 `yaml:"agi"`
	MAT float64 `yaml:"mat"`
	MDF float64 `yaml:"mdf"`
}

// Unity returns multipliers of 1 for every stat.
func Unity() Multipliers {
	return Multipliers{HP: 1, AT: 1, DF: 1, AGI: 1, MAT: 1, MDF: 1}
}

// Get returns the multiplier for k; unknown kinds return 1.
func (m Multipliers) Get(k stat.Kind) float64 {
	switch k {
	case stat.HP:
		return m.HP
	case stat.AT:
		return m.AT
	case stat.DF:
		return m.DF
	case stat.AGI:
		return m.AGI
	case stat.MAT:
		return m.MAT
	case stat.MDF:
		return m.MDF
	default:
		return 1
	}
}

// RaceDefinition describes a body race.
type RaceDefinition struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	RacialSkillID string      `yaml:"racial_skill_id"`
	Multipliers   Multipliers `yaml:"multipliers"`
}

func newRace() *RaceDefinition {
	return &RaceDefinition{Multipliers: Unity()}
}

// BodyJobDefinition describes a body job and the skills it grants.
type BodyJobDefinition struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description"`
	Multipliers  Multipliers `yaml:"multipliers"`
	BaseSkillIDs []string    `yaml:"base_skill_ids"`
}

func newBodyJob() *BodyJobDefinition {
	return &BodyJobDefinition{Multipliers: Unity()}
}

// Tendency groups soul jobs by the body job they suit.
type Tendency int

const (
	Warrior Tendency = iota
	Knight
	Archer
	Mage
	Lancer
)

var tendencyNames = []string{"warrior", "knight", "archer", "mage", "lancer"}

func (t Tendency) String() string {
	if t >= 0 && int(t) < len(tendencyNames) {
		return tendencyNames[t]
	}
	return fmt.Sprintf("tendency(%d)", int(t))
}

// ParseTendency converts a label into a Tendency.
func ParseTendency(s string) (Tendency, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, n := range tendencyNames {
		if n == want {
			return Tendency(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tendency %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tendency) UnmarshalText(b []byte) error {
	v, err := ParseTendency(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Tendency) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// SkillSet is a skill a soul job teaches once its rank reaches UnlockRank.
type SkillSet struct {
	UnlockRank int    `yaml:"unlock_rank"`
	SkillID    string `yaml:"skill_id"`
}

// SoulJobDefinition describes a soul job.
type SoulJobDefinition struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Tendency    Tendency             `yaml:"tendency"`
	Multipliers Multipliers          `yaml:"multipliers"`
	EasePercent int                  `yaml:"ease_percent"`
	Difficulty  growth.JobDifficulty `yaml:"difficulty"`
	SkillSets   []SkillSet           `yaml:"skill_sets"`
}

func newSoulJob() *SoulJobDefinition {
	return &SoulJobDefinition{Multipliers: Unity(), EasePercent: 50}
}

// Multiplier returns the soul-stat multiplier for k. HP and unknown kinds return 1.
func (j *SoulJobDefinition) Multiplier(k stat.Kind) float64 {
	if k == stat.HP || k.Index() < 0 {
		return 1
	}
	return j.Multipliers.Get(k)
}

// SkillsUpTo returns the distinct skill IDs unlocked at or below rank, in
// declaration order.
func (j *SoulJobDefinition) SkillsUpTo(rank int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range j.SkillSets {
		if s.SkillID == "" || s.UnlockRank > rank || seen[s.SkillID] {
			continue
		}
		seen[s.SkillID] = true
		out = append(out, s.SkillID)
	}
	return out
}

// WeaponDefinition describes a weapon a body can carry.
type WeaponDefinition struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	EffectSkillID string `yaml:"effect_skill_id"`
	VisualID      string `yaml:"visual_id"`
}

func newWeapon() *WeaponDefinition { return &WeaponDefinition{} }
