package dice

import (
	"math"

	"go.uber.org/zap"
)

// floatSteps is the resolution of Float: 2^53 evenly spaced values in [0, 1).
const floatSteps = 1 << 53

// Roller wraps a Source and logger. Every draw is logged at debug level.
//
// A Roller is as safe for concurrent use as its Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result.
//
// Postcondition: result.Total() is in [expr.Min(), expr.Max()].
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Intn returns a value in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// IntRange returns a uniform integer in [lo, hi]. Inverted bounds are swapped.
func (r *Roller) IntRange(lo, hi int) int {
	return r.Roll(Uniform(lo, hi)).Total()
}

// Float returns a uniform value in [0, 1).
func (r *Roller) Float() float64 {
	return float64(r.src.Intn(floatSteps)) / floatSteps
}

// FloatRange returns a uniform value in [lo, hi]. Equal bounds return lo.
func (r *Roller) FloatRange(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	v := lo + (hi-lo)*r.Float()
	r.logger.Debug("float draw",
		zap.Float64("min", lo),
		zap.Float64("max", hi),
		zap.Float64("value", v),
	)
	return v
}

// Chance performs a Bernoulli trial that succeeds with probability p.
// p is clamped to [0, 1]; p >= 1 always succeeds without drawing.
func (r *Roller) Chance(p float64) bool {
	if math.IsNaN(p) || p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	draw := r.Float()
	ok := draw <= p
	r.logger.Debug("chance",
		zap.Float64("p", p),
		zap.Float64("draw", draw),
		zap.Bool("success", ok),
	)
	return ok
}
