package skill

import (
	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/damage"
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/status"
	"github.com/kikitora/spacejourney/internal/game/trigger"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// Resolver applies one skill use from an attacker to a defender.
// It is not safe for concurrent use.
type Resolver struct {
	engine *damage.Engine
	roller *dice.Roller
	logger *zap.Logger
	bus    *trigger.Bus
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBus makes the Resolver publish Hp events and let Status listeners
// veto additional effects.
func WithBus(b *trigger.Bus) ResolverOption {
	return func(r *Resolver) { r.bus = b }
}

// NewResolver creates a Resolver.
//
// Precondition: engine, roller and logger must be non-nil.
func NewResolver(engine *damage.Engine, roller *dice.Roller, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{engine: engine, roller: roller, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs hit check, HP delta and additional effects for def.
//
// Postcondition: returns the raw HP delta (positive damage, negative heal,
// 0 on miss or invalid input). Additional effects are attempted on every
// landed use regardless of the delta.
func (r *Resolver) Resolve(def *Definition, attacker, defender *unit.Unit) int {
	if def == nil || attacker == nil || defender == nil || defender.IsDead() {
		return 0
	}

	if def.HitRate < 1 && !r.roller.Chance(def.HitRate) {
		r.logger.Debug("skill missed",
			zap.String("skill", def.ID),
			zap.String("attacker", attacker.ID()),
			zap.String("defender", defender.ID()),
		)
		return 0
	}

	delta := r.engine.HPDelta(damage.Input{
		Kind:          def.DamageKind,
		Amount:        float64(def.Amount),
		IgnorePercent: float64(def.DefenseIgnorePercent),
		AttackerAT:    attacker.FinalStat(stat.AT),
		AttackerMAT:   attacker.FinalStat(stat.MAT),
		DefenderDF:    defender.FinalStat(stat.DF),
		DefenderMDF:   defender.FinalStat(stat.MDF),
		DefenderMaxHP: defender.MaxHP(),
	})

	switch {
	case delta > 0:
		defender.TakeDamage(delta)
	case delta < 0:
		defender.Heal(-delta)
	}
	if delta != 0 && r.bus != nil {
		ctx := &trigger.Context{HPSource: trigger.SourceHit, HPDelta: delta}
		ctx.FillUnits(defender, attacker)
		def.Describe(ctx)
		r.bus.Dispatch(trigger.Hp, ctx)
	}

	r.applyEffects(def, attacker, defender)

	r.logger.Debug("skill resolved",
		zap.String("skill", def.ID),
		zap.String("attacker", attacker.ID()),
		zap.String("defender", defender.ID()),
		zap.Int("delta", delta),
		zap.Int("defender_hp", defender.HP()),
	)
	return delta
}

func (r *Resolver) applyEffects(def *Definition, attacker, defender *unit.Unit) {
	now := attacker.BattleTime()
	for _, e := range def.AdditionalEffects {
		if e.Type == status.None {
			continue
		}
		if !r.roller.Chance(clamp01(e.Probability)) {
			continue
		}
		duration := e.Duration
		if duration == 0 {
			duration = attacker.ActionCost(r.roller, def.BaseCost)
		}
		if duration <= 0 {
			continue
		}
		target := defender
		if e.Type.IsBuff() {
			target = attacker
		}
		if r.bus != nil {
			ctx := &trigger.Context{
				StatusType:     e.Type,
				StatusValue:    e.Value,
				StatusDuration: duration,
			}
			ctx.FillUnits(target, attacker)
			def.Describe(ctx)
			if !r.bus.Dispatch(trigger.Status, ctx) {
				r.logger.Debug("status vetoed",
					zap.String("skill", def.ID),
					zap.Stringer("status", e.Type),
					zap.String("target", target.ID()),
				)
				continue
			}
		}
		target.ApplyStatusEffect(e.Type, e.Value, duration, now)
		r.logger.Debug("status applied",
			zap.String("skill", def.ID),
			zap.Stringer("status", e.Type),
			zap.String("target", target.ID()),
			zap.Int("value", e.Value),
			zap.Int("duration", duration),
			zap.Int("now", now),
		)
	}
}

// DamageDealt clamps a Resolve result to the damage portion.
func DamageDealt(delta int) int {
	return damage.DamageDealt(delta)
}
