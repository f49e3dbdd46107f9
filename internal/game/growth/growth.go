// Package growth holds the pure numeric curves that turn ranks, talents and
// levels into soul and body statistics.
//
// Every rounding in this package is round-half-to-even.
package growth

import (
	"fmt"
	"math"
	"strings"

	"github.com/kikitora/spacejourney/internal/game/dice"
)

// DefaultMaxLevel is the soul level cap.
const DefaultMaxLevel = 25

// DefaultEventFactor is the reincarnation event multiplier applied to every
// freshly rolled soul until reincarnation events are simulated.
const DefaultEventFactor = 1.30

// Round rounds half to even and converts to int.
func Round(v float64) int {
	return int(math.RoundToEven(v))
}

// ClampRank returns rank floored at 1.
func ClampRank(rank int) int {
	return max(1, rank)
}

// fromTable looks rank up in table, extrapolating past the end with the
// delta of the last segment.
func fromTable(table []float64, rank int) float64 {
	idx := ClampRank(rank) - 1
	if len(table) == 0 {
		return 0
	}
	if idx < len(table) {
		return table[idx]
	}
	if len(table) == 1 {
		return table[0]
	}
	last := table[len(table)-1]
	delta := last - table[len(table)-2]
	return last + delta*float64(idx-(len(table)-1))
}

var soulRankBase = []float64{45, 55, 65, 75, 85, 95, 105, 115, 125, 135}

// RankBaseStat returns the soul base stat for rank.
//
// Postcondition: defined for every rank; ranks below 1 behave as rank 1.
func RankBaseStat(rank int) float64 {
	return fromTable(soulRankBase, rank)
}

// BaseStat scales the rank base by a soul-job multiplier.
func BaseStat(rank int, jobMultiplier float64) float64 {
	return RankBaseStat(rank) * jobMultiplier
}

// PotentialStat applies talent and event factors to a base stat.
func PotentialStat(base, talentFactor, eventFactor float64) float64 {
	return base * talentFactor * eventFactor
}

// Lv1Stat returns the level-1 soul stat for a potential.
func Lv1Stat(potential float64) int {
	return int(math.Floor(potential * 0.1))
}

// GrowthType shapes how quickly a soul approaches its growth target.
type GrowthType int

const (
	Early GrowthType = iota
	Normal
	Late
	UltraLate
)

var growthNames = []string{"early", "normal", "late", "ultra_late"}

// String returns the snake_case growth type label.
func (g GrowthType) String() string {
	if g >= 0 && int(g) < len(growthNames) {
		return growthNames[g]
	}
	return fmt.Sprintf("growth(%d)", int(g))
}

// ParseGrowthType converts a label into a GrowthType.
func ParseGrowthType(s string) (GrowthType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, n := range growthNames {
		if n == want {
			return GrowthType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown growth type %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GrowthType) UnmarshalText(b []byte) error {
	v, err := ParseGrowthType(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (g GrowthType) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// GrowthTargetRange returns the closed interval growth targets are drawn from.
func GrowthTargetRange(g GrowthType) (lo, hi float64) {
	switch g {
	case Early:
		return 5.0, 6.5
	case Normal:
		return 5.5, 7.0
	case Late:
		return 6.0, 8.0
	case UltraLate:
		return 6.5, 9.0
	default:
		return 6.0, 7.0
	}
}

// GrowthExponent returns the curve exponent p for g.
func GrowthExponent(g GrowthType) float64 {
	switch g {
	case Early:
		return 0.7
	case Late:
		return 1.3
	case UltraLate:
		return 1.6
	default:
		return 1.0
	}
}

// RandomGrowthTarget draws a growth target for g.
func RandomGrowthTarget(r *dice.Roller, g GrowthType) float64 {
	lo, hi := GrowthTargetRange(g)
	return r.FloatRange(lo, hi)
}

// RollGrowthType draws a growth type: Normal 40, Early 32, Late 25, UltraLate 3.
func RollGrowthType(r *dice.Roller) GrowthType {
	v := r.Intn(100)
	switch {
	case v < 40:
		return Normal
	case v < 72:
		return Early
	case v < 97:
		return Late
	default:
		return UltraLate
	}
}

// GrowthFactor returns the stat multiplier for level.
//
// Postcondition: 1 at level <= 1, gTarget at level >= maxLevel, and
// 1 + (gTarget-1) * ((level-1)/(maxLevel-1))^p in between.
func GrowthFactor(level int, g GrowthType, gTarget float64, maxLevel int) float64 {
	if level <= 1 {
		return 1
	}
	if level >= maxLevel {
		return gTarget
	}
	s := float64(level-1) / float64(maxLevel-1)
	return 1 + (gTarget-1)*math.Pow(s, GrowthExponent(g))
}

// SoulStat returns round(lv1 * GrowthFactor(level)).
func SoulStat(lv1, level int, g GrowthType, gTarget float64, maxLevel int) int {
	return Round(float64(lv1) * GrowthFactor(level, g, gTarget, maxLevel))
}
