package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/condition"
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/skill"
	"github.com/kikitora/spacejourney/internal/game/trigger"
)

// Battle holds the live state of one encounter. It is not safe for
// concurrent use; run each battle on its own goroutine.
type Battle struct {
	combatants  []*Combatant
	resolver    *skill.Resolver
	roller      *dice.Roller
	logger      *zap.Logger
	bus         *trigger.Bus
	evaluator   condition.Evaluator
	firstStrike *Side
	passives    []*skill.Passives

	now     int
	started bool
	events  []Event
}

// Option configures a Battle.
type Option func(*Battle)

// WithBus publishes Time and Action events on bus and binds passive skills to it.
// Pass the same bus to the Resolver for Hp and Status events.
func WithBus(bus *trigger.Bus) Option {
	return func(b *Battle) { b.bus = bus }
}

// WithEvaluator sets the evaluator used for activation and passive conditions.
func WithEvaluator(ev condition.Evaluator) Option {
	return func(b *Battle) { b.evaluator = ev }
}

// WithFirstStrike gives side a FirstStrikeLeadTicks head start.
func WithFirstStrike(side Side) Option {
	return func(b *Battle) { b.firstStrike = &side }
}

// NewBattle creates a Battle over combatants.
//
// Precondition: resolver, roller and logger must be non-nil.
// Postcondition: returns an error when a side is empty or a combatant has no unit.
func NewBattle(combatants []*Combatant, resolver *skill.Resolver, roller *dice.Roller, logger *zap.Logger, opts ...Option) (*Battle, error) {
	counts := map[Side]int{}
	for _, c := range combatants {
		if c == nil || c.Unit == nil {
			return nil, errors.New("combatant without a unit")
		}
		counts[c.Side]++
	}
	if counts[SidePlayer] == 0 || counts[SideEnemy] == 0 {
		return nil, fmt.Errorf("both sides need combatants (player=%d enemy=%d)", counts[SidePlayer], counts[SideEnemy])
	}
	b := &Battle{
		combatants: append([]*Combatant(nil), combatants...),
		resolver:   resolver,
		roller:     roller,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Now returns the current battle tick.
func (b *Battle) Now() int { return b.now }

// Combatants returns the participants in insertion order.
func (b *Battle) Combatants() []*Combatant { return b.combatants }

// Events returns a copy of the battle log.
func (b *Battle) Events() []Event {
	return append([]Event(nil), b.events...)
}

// Start resets every unit's battle time to 0 and schedules first actions.
// The first-strike side acts at tick 0, everyone else at FirstStrikeLeadTicks;
// without a first-strike side everyone acts at tick 0.
//
// Postcondition: passives are bound when a bus is configured.
func (b *Battle) Start() {
	b.now = 0
	for _, c := range b.combatants {
		c.Unit.SetBattleTime(0)
		c.NextActionAt = 0
		if b.firstStrike != nil && c.Side != *b.firstStrike {
			c.NextActionAt = FirstStrikeLeadTicks
		}
	}
	if b.bus != nil {
		for _, c := range b.combatants {
			b.passives = append(b.passives, skill.BindPassives(b.bus, b.evaluator, c.Unit, c.Skills,
				func(def *skill.Definition, ctx *trigger.Context) {
					b.record(Event{
						Kind:      EventPassive,
						ActorID:   c.ID(),
						SkillID:   def.ID,
						Narrative: fmt.Sprintf("%s triggers %s on %s.", c.Unit.Name(), def.ID, ctx.Timing),
					})
				}))
		}
	}
	b.started = true
	b.logger.Debug("battle started",
		zap.Int("combatants", len(b.combatants)),
	)
}

// Stop unbinds passives from the bus.
func (b *Battle) Stop() {
	for _, p := range b.passives {
		p.Unbind()
	}
	b.passives = nil
}

func (b *Battle) record(e Event) {
	e.Tick = b.now
	b.events = append(b.events, e)
}

func (b *Battle) living(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range b.combatants {
		if c.Side == side && c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Over reports whether a side has no living combatants.
func (b *Battle) Over() bool {
	return len(b.living(SidePlayer)) == 0 || len(b.living(SideEnemy)) == 0
}

// Winner returns the surviving side once the battle is over.
func (b *Battle) Winner() (Side, bool) {
	players, enemies := len(b.living(SidePlayer)), len(b.living(SideEnemy))
	switch {
	case players > 0 && enemies == 0:
		return SidePlayer, true
	case enemies > 0 && players == 0:
		return SideEnemy, true
	default:
		return 0, false
	}
}

// Step advances the battle by one tick.
//
// Every living unit's battle time moves to the new tick and a Time event is
// dispatched for it. Then each ready, alive, not disabled combatant in
// insertion order uses its first usable battle skill and is rescheduled at
// now + effective cost.
//
// Precondition: Start has been called.
func (b *Battle) Step() {
	if !b.started {
		b.Start()
	}
	if b.Over() {
		return
	}
	b.now++
	for _, c := range b.combatants {
		if !c.Alive() {
			continue
		}
		c.Unit.SetBattleTime(b.now)
		if b.bus != nil {
			ctx := &trigger.Context{}
			ctx.FillUnits(c.Unit, nil)
			b.bus.Dispatch(trigger.Time, ctx)
		}
	}
	for _, c := range b.combatants {
		if b.Over() {
			return
		}
		if !c.Alive() || c.NextActionAt > b.now || c.Unit.IsActionDisabled() {
			continue
		}
		b.act(c)
	}
}

func (b *Battle) act(c *Combatant) {
	allies, enemies := b.living(c.Side), b.living(c.Side.Opponent())
	for _, def := range c.Skills {
		if def == nil || !def.Category.IsBattle() {
			continue
		}
		target := pickTarget(def, allies, enemies)
		if target == nil {
			continue
		}
		ctx := &trigger.Context{
			ActionPhase: trigger.PhaseSkillDeclared,
			EnemyCount:  len(enemies),
			AllyCount:   len(allies),
		}
		ctx.FillUnits(c.Unit, target.Unit)
		def.Describe(ctx)
		if !def.Usable(b.evaluator, ctx) {
			continue
		}
		if b.bus != nil {
			b.bus.Dispatch(trigger.Action, ctx)
		}
		delta := b.resolver.Resolve(def, c.Unit, target.Unit)
		b.record(Event{
			Kind:      EventSkill,
			ActorID:   c.ID(),
			TargetID:  target.ID(),
			SkillID:   def.ID,
			HPDelta:   delta,
			Narrative: fmt.Sprintf("%s uses %s on %s (%+d).", c.Unit.Name(), def.ID, target.Unit.Name(), -delta),
		})
		if !target.Alive() {
			b.record(Event{
				Kind:      EventDefeat,
				ActorID:   target.ID(),
				Narrative: fmt.Sprintf("%s is defeated.", target.Unit.Name()),
			})
			b.logger.Debug("combatant defeated",
				zap.String("unit", target.ID()),
				zap.Int("tick", b.now),
			)
		}
		c.NextActionAt = b.now + c.Unit.ActionCost(b.roller, def.BaseCost)
		return
	}
	b.record(Event{
		Kind:      EventWait,
		ActorID:   c.ID(),
		Narrative: fmt.Sprintf("%s waits.", c.Unit.Name()),
	})
	c.NextActionAt = b.now + c.Unit.ActionCost(b.roller, WaitCost)
}

// pickTarget returns the first living enemy for attacks and the most wounded
// living ally for support skills.
func pickTarget(def *skill.Definition, allies, enemies []*Combatant) *Combatant {
	switch def.Category {
	case skill.ActiveAttack:
		if len(enemies) > 0 {
			return enemies[0]
		}
	case skill.ActiveSupport:
		var best *Combatant
		for _, a := range allies {
			if best == nil || a.Unit.HPRate() < best.Unit.HPRate() {
				best = a
			}
		}
		return best
	}
	return nil
}

// Run steps until the battle is over or maxTicks ticks have elapsed.
//
// Postcondition: returns the winner and true when a side was wiped.
func (b *Battle) Run(maxTicks int) (Side, bool) {
	if !b.started {
		b.Start()
	}
	for i := 0; i < maxTicks && !b.Over(); i++ {
		b.Step()
	}
	winner, ok := b.Winner()
	b.logger.Info("battle finished",
		zap.Int("ticks", b.now),
		zap.Bool("decided", ok),
		zap.Stringer("winner", winner),
		zap.Int("events", len(b.events)),
	)
	return winner, ok
}
