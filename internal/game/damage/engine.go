package damage

import (
	"math"

	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/game/dice"
)

// Params tunes the through-rate curve, chip damage and variance.
type Params struct {
	ThroughEqual float64
	DeltaScale   float64
	ThroughMin   float64
	ThroughMax   float64
	ChipMin      int
	ChipMax      int
	VarianceMin  float64
	VarianceMax  float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		ThroughEqual: 0.53,
		DeltaScale:   60,
		ThroughMin:   0.10,
		ThroughMax:   1.10,
		ChipMin:      2,
		ChipMax:      5,
		VarianceMin:  0.90,
		VarianceMax:  1.10,
	}
}

// Engine computes HP deltas. It draws every random value from its roller.
type Engine struct {
	params Params
	roller *dice.Roller
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: roller and logger must be non-nil.
func NewEngine(params Params, roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{params: params, roller: roller, logger: logger}
}

// Params returns the engine's tuning.
func (e *Engine) Params() Params { return e.params }

// Through returns the fraction of scaled attack that converts into damage.
//
// Postcondition: result is in [ThroughMin, ThroughMax] and equals
// ThroughEqual when attack == defense.
func (e *Engine) Through(attack, defense float64) float64 {
	p := e.params
	scale := p.DeltaScale
	if scale <= 0 {
		scale = 1
	}
	t := math.Tanh((attack - defense) / scale)
	v := p.ThroughEqual + 0.5*t
	if math.IsNaN(v) {
		return p.ThroughEqual
	}
	return math.Min(p.ThroughMax, math.Max(p.ThroughMin, v))
}

// Chip returns a uniform integer in [ChipMin, ChipMax].
func (e *Engine) Chip() int {
	return e.roller.Roll(dice.Uniform(e.params.ChipMin, e.params.ChipMax)).Total()
}

// Physical computes damage of base attack against physical defense.
//
// Postcondition: base <= 0 returns 0; otherwise the result is >= 1.
func (e *Engine) Physical(base, defense float64) int {
	return e.scaled(base, defense)
}

// Magical computes damage of base attack against magical defense.
func (e *Engine) Magical(base, defense float64) int {
	return e.scaled(base, defense)
}

func (e *Engine) scaled(base, defense float64) int {
	if base <= 0 || math.IsNaN(base) {
		return 0
	}
	through := e.Through(base, defense)
	chip := e.Chip()
	variance := e.roller.FloatRange(e.params.VarianceMin, e.params.VarianceMax)
	return max(1, int(math.RoundToEven((float64(chip)+base*through)*variance)))
}

// Input carries the final stats needed to resolve one hit.
type Input struct {
	Kind          Kind
	Amount        float64
	IgnorePercent float64
	AttackerAT    int
	AttackerMAT   int
	DefenderDF    int
	DefenderMDF   int
	DefenderMaxHP int
}

// HPDelta returns the HP change for in: positive damages, negative heals.
//
// Postcondition: Physical and Magical kinds with a non-positive scaled base
// return 0 without drawing chip or variance.
func (e *Engine) HPDelta(in Input) int {
	amount := in.Amount
	if amount < 0 && in.Kind != Fixed && in.Kind != MaxHpRate {
		amount = 0
	}

	var delta int
	switch in.Kind {
	case Fixed:
		delta = int(math.RoundToEven(amount))
	case MaxHpRate:
		delta = int(math.RoundToEven(float64(in.DefenderMaxHP) * amount / 100))
	case Physical, Magical, PenetratePhysical, PenetrateMagical:
		delta = e.statDelta(in, amount)
	default:
		delta = 0
	}

	e.logger.Debug("hp delta",
		zap.Stringer("kind", in.Kind),
		zap.Float64("amount", amount),
		zap.Int("delta", delta),
	)
	return delta
}

func (e *Engine) statDelta(in Input, amount float64) int {
	if amount == 0 {
		return 0
	}
	attack, defense := in.AttackerAT, in.DefenderDF
	if in.Kind.IsMagical() {
		attack, defense = in.AttackerMAT, in.DefenderMDF
	}
	raw := int(math.RoundToEven(float64(attack) * amount / 100))
	if raw <= 0 {
		return 0
	}
	def := float64(defense)
	if in.Kind.IsPenetrating() {
		ignore := math.Min(100, math.Max(0, in.IgnorePercent))
		def = math.Max(0, def*(1-ignore/100))
	}
	if in.Kind.IsMagical() {
		return e.Magical(float64(raw), def)
	}
	return e.Physical(float64(raw), def)
}

// DamageDealt clamps a raw HP delta to the damage portion.
func DamageDealt(delta int) int {
	return max(0, delta)
}
