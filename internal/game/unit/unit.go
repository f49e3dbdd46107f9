package unit

import (
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/status"
)

// Unit is a soul in a body plus its mutable combat state.
//
// Invariant: 0 <= HP() <= MaxHP(); IsDead() only after damage took HP to 0.
// A Unit is not safe for concurrent use.
type Unit struct {
	id         string
	name       string
	soul       *Soul
	body       *Body
	hp         int
	dead       bool
	battleTime int
	effects    *status.Tracker
	costParams growth.ActionCostParams
}

// Option configures a Unit at construction.
type Option func(*Unit)

// WithActionCostParams overrides the agility cost-reduction parameters.
func WithActionCostParams(p growth.ActionCostParams) Option {
	return func(u *Unit) { u.costParams = p }
}

// New creates a Unit at full HP.
func New(id, name string, soul *Soul, body *Body, opts ...Option) *Unit {
	u := &Unit{
		id:         id,
		name:       name,
		soul:       soul,
		body:       body,
		effects:    status.NewTracker(),
		costParams: growth.DefaultActionCostParams(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.hp = u.MaxHP()
	return u
}

func (u *Unit) ID() string   { return u.id }
func (u *Unit) Name() string { return u.name }
func (u *Unit) Soul() *Soul  { return u.soul }
func (u *Unit) Body() *Body  { return u.body }
func (u *Unit) HP() int      { return u.hp }
func (u *Unit) IsDead() bool { return u.dead }

// IsAlive reports whether the unit can still act or be targeted.
func (u *Unit) IsAlive() bool { return !u.dead && u.hp > 0 }

// MaxHP returns the body's MaxHP, or 0 without a body.
func (u *Unit) MaxHP() int {
	return u.body.Stat(stat.HP)
}

// HPRate returns HP/MaxHP, or 0 when MaxHP is 0.
func (u *Unit) HPRate() float64 {
	maxHP := u.MaxHP()
	if maxHP <= 0 {
		return 0
	}
	return float64(u.hp) / float64(maxHP)
}

// BattleTime returns the unit's current battle tick.
func (u *Unit) BattleTime() int { return u.battleTime }

// SetBattleTime moves the unit's clock, clamped at 0, and purges expired effects.
func (u *Unit) SetBattleTime(t int) {
	u.battleTime = max(0, t)
	u.effects.PurgeExpired(u.battleTime)
}

func (u *Unit) purge() {
	u.effects.PurgeExpired(u.battleTime)
}

// FinalStat composes soul, body and active modifiers into the stat used in combat.
//
// Postcondition: HP returns MaxHP. DF, MDF and AGI are floored at 0; AT and
// MAT are not clamped.
func (u *Unit) FinalStat(k stat.Kind) int {
	u.purge()
	if k == stat.HP {
		return u.MaxHP()
	}
	soulStat := u.soul.Stat(k)
	applied := max(0, soulStat)
	if u.body != nil {
		applied = u.body.ApplyToSoulStat(soulStat, k)
	}
	mod := u.effects.SumModifier(k)
	v := growth.Round(float64(applied) * (1 + float64(mod)/100))
	switch k {
	case stat.DF, stat.MDF, stat.AGI:
		return max(0, v)
	default:
		return v
	}
}

// TakeDamage subtracts n HP. Ignored when dead or n <= 0.
func (u *Unit) TakeDamage(n int) {
	if u.dead || n <= 0 {
		return
	}
	u.hp -= n
	if u.hp <= 0 {
		u.hp = 0
		u.dead = true
	}
}

// Heal restores n HP up to MaxHP and revives the unit if HP becomes positive.
func (u *Unit) Heal(n int) {
	if n <= 0 {
		return
	}
	u.hp = min(u.hp+n, u.MaxHP())
	if u.hp > 0 {
		u.dead = false
	}
}

// RestoreFullHP sets HP to MaxHP and clears the dead flag when MaxHP > 0.
func (u *Unit) RestoreFullHP() {
	u.hp = u.MaxHP()
	if u.hp > 0 {
		u.dead = false
	}
}

// ApplyStatusEffect applies a status effect anchored at now.
func (u *Unit) ApplyStatusEffect(t status.Type, value, duration, now int) {
	u.effects.Apply(t, value, duration, now)
}

// IsActionDisabled reports whether an active Stun or Freeze is present.
func (u *Unit) IsActionDisabled() bool {
	u.purge()
	return u.effects.IsActionDisabled()
}

// HasAnyStatus reports whether any active effect is present.
func (u *Unit) HasAnyStatus() bool {
	u.purge()
	return u.effects.HasAny()
}

// HasDebuff reports whether an active stat debuff is present.
func (u *Unit) HasDebuff() bool {
	u.purge()
	return u.effects.HasDebuff()
}

// Effects returns a copy of the active effects.
func (u *Unit) Effects() []status.Effect {
	u.purge()
	return u.effects.All()
}

// ActionCost returns the agility-reduced cost of an action with baseCost.
//
// Postcondition: baseCost <= 0 returns 0; a unit missing a soul or body
// returns baseCost.
func (u *Unit) ActionCost(r *dice.Roller, baseCost int) int {
	if baseCost <= 0 {
		return 0
	}
	if u.soul == nil || u.body == nil {
		return baseCost
	}
	return growth.EffectiveActionCost(r, baseCost, u.FinalStat(stat.AGI), u.costParams)
}

// State is the persisted combat state of a Unit.
type State struct {
	HP         int
	Dead       bool
	BattleTime int
	Effects    []status.Effect
}

// Snapshot captures the unit's combat state without purging.
func (u *Unit) Snapshot() State {
	return State{
		HP:         u.hp,
		Dead:       u.dead,
		BattleTime: u.battleTime,
		Effects:    u.effects.All(),
	}
}

// Restore replaces the unit's combat state with s, clamping HP to [0, MaxHP].
//
// Postcondition: the unit is dead only when s.Dead is set and HP is 0.
func (u *Unit) Restore(s State) {
	u.hp = min(max(0, s.HP), u.MaxHP())
	u.dead = s.Dead && u.hp == 0
	u.battleTime = max(0, s.BattleTime)
	u.effects.Restore(s.Effects)
}
