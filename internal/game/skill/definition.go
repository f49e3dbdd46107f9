// Package skill defines declarative skills and resolves them against units.
package skill

import (
	"math"

	"gopkg.in/yaml.v3"

	"github.com/kikitora/spacejourney/internal/game/condition"
	"github.com/kikitora/spacejourney/internal/game/damage"
	"github.com/kikitora/spacejourney/internal/game/status"
	"github.com/kikitora/spacejourney/internal/game/trigger"
)

// Offset is a grid offset relative to the caster.
type Offset struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// RangePattern is a set of grid offsets drawn inside a Width x Height editor frame.
type RangePattern struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Offsets []Offset `yaml:"offsets"`
}

// DefaultRangePattern returns an empty 3x6 pattern.
func DefaultRangePattern() RangePattern {
	return RangePattern{Width: 3, Height: 6}
}

// Contains reports whether (dx, dy) is one of the pattern's offsets.
func (p RangePattern) Contains(dx, dy int) bool {
	for _, o := range p.Offsets {
		if o.X == dx && o.Y == dy {
			return true
		}
	}
	return false
}

// EffectSpec is an additional timed effect a skill may apply.
// Duration 0 means the caster's effective action cost for the skill.
type EffectSpec struct {
	Type        status.Type `yaml:"type"`
	Value       int         `yaml:"value"`
	Duration    int         `yaml:"duration"`
	Probability float64     `yaml:"probability"`
	IntParam1   int         `yaml:"int_param1,omitempty"`
	IntParam2   int         `yaml:"int_param2,omitempty"`
	FloatParam1 float64     `yaml:"float_param1,omitempty"`
	FloatParam2 float64     `yaml:"float_param2,omitempty"`
	BoolParam1  bool        `yaml:"bool_param1,omitempty"`
}

// UnmarshalYAML decodes an EffectSpec, defaulting Probability to 1.
func (e *EffectSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain EffectSpec
	v := plain{Probability: 1}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*e = EffectSpec(v)
	return nil
}

// Definition is an immutable skill record referenced by ID.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	Tags        Tag      `yaml:"tags"`
	Basic       bool     `yaml:"basic"`

	ActivationConditions []condition.Condition `yaml:"activation_conditions"`
	PassiveTimings       []trigger.Timing      `yaml:"passive_timings"`
	PassiveConditions    []condition.Condition `yaml:"passive_conditions"`

	TargetingMode   TargetingMode   `yaml:"targeting_mode"`
	PointTargetKind PointTargetKind `yaml:"point_target_kind"`
	EffectSide      EffectSide      `yaml:"effect_side"`
	TargetSelect    TargetSelect    `yaml:"target_select"`
	PickMode        PickMode        `yaml:"pick_mode"`
	MaxTargets      int             `yaml:"max_targets"`

	BaseCost              int `yaml:"base_cost"`
	OpeningCoolTime       int `yaml:"opening_cool_time"`
	ReuseCycle            int `yaml:"reuse_cycle"`
	ActivationIndexInCost int `yaml:"activation_index_in_cost"`

	HitRate              float64     `yaml:"hit_rate"`
	DamageKind           damage.Kind `yaml:"damage_kind"`
	Amount               int         `yaml:"amount"`
	DefenseIgnorePercent int         `yaml:"defense_ignore_percent"`

	TargetRange    RangePattern `yaml:"target_range"`
	EffectRange    RangePattern `yaml:"effect_range"`
	MoveRange      RangePattern `yaml:"move_range"`
	MoveAfterSkill bool         `yaml:"move_after_skill"`
	MoveAfterRange RangePattern `yaml:"move_after_range"`

	AdditionalEffects []EffectSpec `yaml:"additional_effects"`
	AnimationKey      string       `yaml:"animation_key"`
}

// NewDefinition returns a Definition carrying the authoring defaults.
func NewDefinition(id string) *Definition {
	return &Definition{
		ID:             id,
		Category:       ActiveAttack,
		TargetingMode:  PointArea,
		EffectSide:     SideEnemy,
		MaxTargets:     1,
		BaseCost:       2,
		HitRate:        1,
		DamageKind:     damage.Physical,
		Amount:         100,
		TargetRange:    DefaultRangePattern(),
		EffectRange:    DefaultRangePattern(),
		MoveRange:      DefaultRangePattern(),
		MoveAfterRange: DefaultRangePattern(),
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// resetBattleFields restores every targeting and hit field to its default.
func (d *Definition) resetBattleFields() {
	d.TargetingMode = PointArea
	d.PointTargetKind = PointUnit
	d.EffectSide = SideEnemy
	d.TargetSelect = 0
	d.PickMode = PickMaxTargets
	d.MaxTargets = 1
	d.HitRate = 1
	d.DamageKind = damage.Physical
	d.Amount = 100
	d.DefenseIgnorePercent = 0
	d.TargetRange = DefaultRangePattern()
	d.EffectRange = DefaultRangePattern()
}

// Normalize clamps numeric fields and resets fields the category or
// targeting mode does not use.
//
// Postcondition: MaxTargets in [1,5], DefenseIgnorePercent in [0,100],
// HitRate in [0,1], ActivationIndexInCost in [0,8], BaseCost in [1,9],
// OpeningCoolTime and ReuseCycle in [0,10]. Only passives keep passive lists.
func (d *Definition) Normalize() {
	d.MaxTargets = clampInt(d.MaxTargets, 1, 5)
	d.DefenseIgnorePercent = clampInt(d.DefenseIgnorePercent, 0, 100)
	d.HitRate = clamp01(d.HitRate)
	d.ActivationIndexInCost = clampInt(d.ActivationIndexInCost, 0, 8)
	d.BaseCost = clampInt(d.BaseCost, 1, 9)
	d.OpeningCoolTime = clampInt(d.OpeningCoolTime, 0, 10)
	d.ReuseCycle = clampInt(d.ReuseCycle, 0, 10)

	if d.Category != Passive {
		d.PassiveTimings = nil
		d.PassiveConditions = nil
	}

	switch {
	case d.Category == ActiveMove:
		d.resetBattleFields()
		d.MoveAfterSkill = false
		d.MoveAfterRange = DefaultRangePattern()
		return
	case !d.Category.IsBattle():
		d.resetBattleFields()
		if !d.MoveAfterSkill {
			d.MoveAfterRange = DefaultRangePattern()
		}
		return
	}

	switch d.TargetingMode {
	case SelfArea:
		d.PointTargetKind = PointUnit
		d.PickMode = PickMaxTargets
		d.MaxTargets = 1
		d.TargetRange = DefaultRangePattern()
	case PointArea:
		d.PickMode = PickMaxTargets
		d.MaxTargets = 1
	case MultiSingle:
		d.PointTargetKind = PointUnit
		d.EffectRange = DefaultRangePattern()
		if d.PickMode == PickAllInRange {
			d.MaxTargets = 1
		}
	}
	if !d.MoveAfterSkill {
		d.MoveAfterRange = DefaultRangePattern()
	}
}

// RequiresTarget reports whether the skill needs a chosen centre or target.
func (d *Definition) RequiresTarget() bool {
	return d.Category.IsBattle() && d.TargetingMode != SelfArea
}

// SelectsAllInRange reports whether a MultiSingle skill hits every candidate.
func (d *Definition) SelectsAllInRange() bool {
	return d.Category.IsBattle() && d.TargetingMode == MultiSingle && d.PickMode == PickAllInRange
}

// ListensTo reports whether a passive skill reacts to timing t.
func (d *Definition) ListensTo(t trigger.Timing) bool {
	for _, pt := range d.PassiveTimings {
		if pt == t {
			return true
		}
	}
	return false
}

// Usable reports whether every activation condition holds in ctx.
func (d *Definition) Usable(ev condition.Evaluator, ctx *trigger.Context) bool {
	if d == nil {
		return false
	}
	return ev.AllTrue(d.ActivationConditions, ctx)
}

// Describe copies the skill's identity flags into ctx.
func (d *Definition) Describe(ctx *trigger.Context) {
	if d == nil || ctx == nil {
		return
	}
	ctx.UsedSkillID = d.ID
	ctx.UsedSkillTags = uint32(d.Tags)
	ctx.UsedSkillIsBasic = d.Basic
}
