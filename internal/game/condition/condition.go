// Package condition evaluates AND-lists of typed predicates against a
// trigger context.
package condition

import (
	"fmt"
	"strings"

	"github.com/kikitora/spacejourney/internal/game/trigger"
)

// Kind selects which context fields a Condition reads. Values are stable.
type Kind int

const (
	None                   Kind = 0
	SelfHpBelow            Kind = 10
	SelfHpAbove            Kind = 11
	SelfMoved              Kind = 12
	SelfNotMoved           Kind = 13
	TargetHasAnyStatus     Kind = 30
	TargetHasDebuff        Kind = 31
	TargetHpBelow          Kind = 32
	EnemyCountAtLeast      Kind = 50
	AllyCountAtLeast       Kind = 51
	UsedSkillIsBasic       Kind = 70
	UsedSkillHasTag        Kind = 71
	UsedSkillIsBodySkill   Kind = 72
	UsedSkillIsWeaponSkill Kind = 73
	Script                 Kind = 90
)

var kindNames = map[Kind]string{
	None:                   "none",
	SelfHpBelow:            "self_hp_below",
	SelfHpAbove:            "self_hp_above",
	SelfMoved:              "self_moved",
	SelfNotMoved:           "self_not_moved",
	TargetHasAnyStatus:     "target_has_any_status",
	TargetHasDebuff:        "target_has_debuff",
	TargetHpBelow:          "target_hp_below",
	EnemyCountAtLeast:      "enemy_count_at_least",
	AllyCountAtLeast:       "ally_count_at_least",
	UsedSkillIsBasic:       "used_skill_is_basic",
	UsedSkillHasTag:        "used_skill_has_tag",
	UsedSkillIsBodySkill:   "used_skill_is_body_skill",
	UsedSkillIsWeaponSkill: "used_skill_is_weapon_skill",
	Script:                 "script",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("condition(%d)", int(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for kind, n := range kindNames {
		if n == want {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown condition kind %q", string(b))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Condition is one typed predicate.
type Condition struct {
	Kind      Kind    `yaml:"kind"`
	IntParam  int     `yaml:"int,omitempty"`
	RateParam float64 `yaml:"rate,omitempty"`
	TagParam  uint32  `yaml:"tag,omitempty"`
	BoolParam bool    `yaml:"bool,omitempty"`
	// Script names the Lua hook evaluated by the Script kind.
	Script string `yaml:"script,omitempty"`
}

// ScriptRunner evaluates a named scripted predicate.
type ScriptRunner interface {
	EvalCondition(hook string, ctx *trigger.Context) (bool, error)
}

// AllTrue evaluates conds without a script runner. Script conditions are false.
func AllTrue(conds []Condition, ctx *trigger.Context) bool {
	return Evaluator{}.AllTrue(conds, ctx)
}

// Evaluator evaluates condition lists, delegating Script conditions to a runner.
type Evaluator struct {
	scripts ScriptRunner
}

// NewEvaluator creates an Evaluator. scripts may be nil.
func NewEvaluator(scripts ScriptRunner) Evaluator {
	return Evaluator{scripts: scripts}
}

// AllTrue reports whether every condition holds.
//
// Postcondition: an empty list is true; a nil ctx with conditions is false;
// evaluation stops at the first false condition.
func (e Evaluator) AllTrue(conds []Condition, ctx *trigger.Context) bool {
	if len(conds) == 0 {
		return true
	}
	if ctx == nil {
		return false
	}
	for i := range conds {
		if !e.Eval(conds[i], ctx) {
			return false
		}
	}
	return true
}

// Eval evaluates a single condition. None is true; unknown kinds are false.
func (e Evaluator) Eval(c Condition, ctx *trigger.Context) bool {
	if ctx == nil {
		return false
	}
	switch c.Kind {
	case None:
		return true
	case SelfHpBelow:
		return ctx.SelfHPRate < c.RateParam
	case SelfHpAbove:
		return ctx.SelfHPRate > c.RateParam
	case SelfMoved:
		return ctx.SelfMoved
	case SelfNotMoved:
		return !ctx.SelfMoved
	case TargetHasAnyStatus:
		return ctx.OtherHasAnyStatus
	case TargetHasDebuff:
		return ctx.OtherHasDebuff
	case TargetHpBelow:
		return ctx.OtherHPRate < c.RateParam
	case EnemyCountAtLeast:
		return ctx.EnemyCount >= c.IntParam
	case AllyCountAtLeast:
		return ctx.AllyCount >= c.IntParam
	case UsedSkillIsBasic:
		return ctx.UsedSkillIsBasic
	case UsedSkillHasTag:
		return ctx.UsedSkillTags&c.TagParam != 0
	case UsedSkillIsBodySkill:
		return ctx.UsedSkillIsBodySkill
	case UsedSkillIsWeaponSkill:
		return ctx.UsedSkillIsWeaponSkill
	case Script:
		if e.scripts == nil || c.Script == "" {
			return false
		}
		ok, err := e.scripts.EvalCondition(c.Script, ctx)
		return err == nil && ok
	default:
		return false
	}
}
