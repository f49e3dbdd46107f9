package skill

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the broad role of a skill.
type Category int

const (
	ActiveAttack Category = iota
	ActiveSupport
	ActiveMove
	Passive
)

// TargetingMode decides how a battle skill selects and shapes its targets.
type TargetingMode int

const (
	SelfArea TargetingMode = iota
	PointArea
	MultiSingle
)

// PointTargetKind says whether a PointArea centre is a unit or a cell.
type PointTargetKind int

const (
	PointUnit PointTargetKind = iota
	PointCell
)

// EffectSide is the faction a battle skill affects.
type EffectSide int

const (
	SideNone EffectSide = iota
	SideSelf
	SideEnemy
	SideBoth
)

// PickMode decides how many targets a MultiSingle skill hits.
type PickMode int

const (
	PickMaxTargets PickMode = iota
	PickAllInRange
)

// TargetSelect is a set of target-ordering flags.
type TargetSelect uint32

const (
	SelectNearest         TargetSelect = 1 << 0
	SelectFarthest        TargetSelect = 1 << 1
	SelectRandom          TargetSelect = 1 << 2
	SelectLowestHp        TargetSelect = 1 << 3
	SelectHighestHp       TargetSelect = 1 << 4
	SelectMaximizeAoeHits TargetSelect = 1 << 5
	SelectUseTargetPoint  TargetSelect = 1 << 8
	SelectUseEffectRange  TargetSelect = 1 << 9
)

// Tag is a set of rule tags on a skill.
type Tag uint32

const (
	TagGround     Tag = 1 << 0
	TagAir        Tag = 1 << 1
	TagProjectile Tag = 1 << 2
	TagMelee      Tag = 1 << 3
)

var (
	categoryNames   = []string{"active_attack", "active_support", "active_move", "passive"}
	targetingNames  = []string{"self_area", "point_area", "multi_single"}
	pointKindNames  = []string{"unit", "cell"}
	effectSideNames = []string{"none", "self", "enemy", "both"}
	pickModeNames   = []string{"max_targets", "all_in_range"}

	selectNames = map[string]TargetSelect{
		"nearest":           SelectNearest,
		"farthest":          SelectFarthest,
		"random":            SelectRandom,
		"lowest_hp":         SelectLowestHp,
		"highest_hp":        SelectHighestHp,
		"maximize_aoe_hits": SelectMaximizeAoeHits,
		"use_target_point":  SelectUseTargetPoint,
		"use_effect_range":  SelectUseEffectRange,
	}
	tagNames = map[string]Tag{
		"ground":     TagGround,
		"air":        TagAir,
		"projectile": TagProjectile,
		"melee":      TagMelee,
	}
)

func label(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func parseLabel(names []string, b []byte, kind string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range names {
		if n == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, string(b))
}

func (c Category) String() string { return label(categoryNames, int(c), "category") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := parseLabel(categoryNames, b, "category")
	if err != nil {
		return err
	}
	*c = Category(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// IsBattle reports whether c selects targets and deals HP deltas.
func (c Category) IsBattle() bool { return c == ActiveAttack || c == ActiveSupport }

func (m TargetingMode) String() string { return label(targetingNames, int(m), "targeting") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *TargetingMode) UnmarshalText(b []byte) error {
	v, err := parseLabel(targetingNames, b, "targeting mode")
	if err != nil {
		return err
	}
	*m = TargetingMode(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m TargetingMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (k PointTargetKind) String() string { return label(pointKindNames, int(k), "point") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PointTargetKind) UnmarshalText(b []byte) error {
	v, err := parseLabel(pointKindNames, b, "point target kind")
	if err != nil {
		return err
	}
	*k = PointTargetKind(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k PointTargetKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (s EffectSide) String() string { return label(effectSideNames, int(s), "side") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EffectSide) UnmarshalText(b []byte) error {
	v, err := parseLabel(effectSideNames, b, "effect side")
	if err != nil {
		return err
	}
	*s = EffectSide(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s EffectSide) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (p PickMode) String() string { return label(pickModeNames, int(p), "pick") }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PickMode) UnmarshalText(b []byte) error {
	v, err := parseLabel(pickModeNames, b, "pick mode")
	if err != nil {
		return err
	}
	*p = PickMode(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p PickMode) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// decodeFlags reads a YAML sequence of flag names into a bit set.
func decodeFlags[T ~uint32](node *yaml.Node, names map[string]T, kind string) (T, error) {
	var list []string
	if err := node.Decode(&list); err != nil {
		return 0, fmt.Errorf("%s: %w", kind, err)
	}
	var out T
	for _, n := range list {
		f, ok := names[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown %s %q", kind, n)
		}
		out |= f
	}
	return out, nil
}

// UnmarshalYAML decodes a list of tag names.
func (t *Tag) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeFlags(node, tagNames, "skill tag")
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Has reports whether every flag in f is set.
func (t Tag) Has(f Tag) bool { return t&f == f }

// UnmarshalYAML decodes a list of target-select flag names.
func (s *TargetSelect) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeFlags(node, selectNames, "target select")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Has reports whether every flag in f is set.
func (s TargetSelect) Has(f TargetSelect) bool { return s&f == f }
