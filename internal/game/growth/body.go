package growth

import (
	"math"

	"github.com/kikitora/spacejourney/internal/game/dice"
)

var (
	bodyHPTable    = []float64{100, 120, 145, 175, 210, 250, 295, 345, 410, 500}
	bodyOtherTable = []float64{10, 16, 24, 33, 44, 56, 69, 82, 92, 100}
)

// BodyHPRankValue returns the body HP table entry for rank.
func BodyHPRankValue(rank int) float64 { return fromTable(bodyHPTable, rank) }

// BodyOtherRankValue returns the non-HP body table entry for rank.
func BodyOtherRankValue(rank int) float64 { return fromTable(bodyOtherTable, rank) }

// BodyBand returns the right-shifted sampling band around the table value for rank.
//
// Postcondition: lo <= hi.
func BodyBand(table []float64, rank int) (lo, hi float64) {
	rank = ClampRank(rank)
	cur := fromTable(table, rank)
	switch {
	case rank == 1:
		next := fromTable(table, rank+1)
		lo, hi = cur, cur+(next-cur)*0.75
	case rank == len(table):
		prev := fromTable(table, rank-1)
		lo, hi = cur+(prev-cur)*0.25, cur*1.2
	default:
		prev := fromTable(table, rank-1)
		next := fromTable(table, rank+1)
		lo, hi = cur+(prev-cur)*0.25, cur+(next-cur)*0.75
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// BodyHPBand is BodyBand over the HP table.
func BodyHPBand(rank int) (lo, hi float64) { return BodyBand(bodyHPTable, rank) }

// BodyOtherBand is BodyBand over the non-HP table.
func BodyOtherBand(rank int) (lo, hi float64) { return BodyBand(bodyOtherTable, rank) }

func sampleBand(r *dice.Roller, lo, hi float64) int {
	return max(1, Round(r.FloatRange(lo, hi)))
}

// GenerateBodyHPBase samples a body HP base for rank.
func GenerateBodyHPBase(r *dice.Roller, rank int) int {
	lo, hi := BodyHPBand(rank)
	return sampleBand(r, lo, hi)
}

// GenerateBodyOtherBase samples a non-HP body base for rank.
// Callers draw once per stat.
func GenerateBodyOtherBase(r *dice.Roller, rank int) int {
	lo, hi := BodyOtherBand(rank)
	return sampleBand(r, lo, hi)
}

// ApplyJobMultiplierPercent returns max(1, round(base*pct/100)).
func ApplyJobMultiplierPercent(base int, pct float64) int {
	return max(1, Round(float64(base)*pct/100))
}

// ActionCostParams parameterises EffectiveActionCost.
type ActionCostParams struct {
	AgilityCap   float64
	MaxReduction float64
	MinStep      float64
	JitterMin    float64
	JitterMax    float64
}

// DefaultActionCostParams returns cap 600, 35% max reduction and ±5% jitter.
func DefaultActionCostParams() ActionCostParams {
	return ActionCostParams{
		AgilityCap:   600,
		MaxReduction: 0.35,
		MinStep:      1.0,
		JitterMin:    0.95,
		JitterMax:    1.05,
	}
}

// EffectiveActionCost shortens baseCost by agility.
//
// Precondition: r is non-nil.
// Postcondition: baseCost <= 0 returns 0; a reduction smaller than MinStep
// returns baseCost unchanged; otherwise the result is at least 1.
func EffectiveActionCost(r *dice.Roller, baseCost, agility int, p ActionCostParams) int {
	if baseCost <= 0 {
		return 0
	}
	agiUsed := float64(agility) * r.FloatRange(p.JitterMin, p.JitterMax)
	ratio := 0.0
	if p.AgilityCap > 0 {
		ratio = math.Min(1, math.Max(0, agiUsed/p.AgilityCap))
	}
	raw := float64(baseCost) * (1 - p.MaxReduction*ratio)
	if float64(baseCost)-raw < p.MinStep {
		return baseCost
	}
	return max(1, Round(raw))
}
