package growth

import (
	"fmt"
	"strings"

	"github.com/kikitora/spacejourney/internal/game/dice"
)

// TalentRank grades a soul's innate potential, A best.
type TalentRank int

const (
	TalentA TalentRank = iota
	TalentB
	TalentC
	TalentD
	TalentE
)

var talentNames = []string{"A", "B", "C", "D", "E"}

// talentWeights is the roll distribution out of 100, in rank order.
var talentWeights = []int{2, 8, 25, 40, 25}

var talentFactorRanges = [][2]float64{
	{1.25, 1.32},
	{1.15, 1.24},
	{1.10, 1.24},
	{1.00, 1.09},
	{0.90, 0.99},
}

// String returns the single-letter rank.
func (t TalentRank) String() string {
	if t >= 0 && int(t) < len(talentNames) {
		return talentNames[t]
	}
	return fmt.Sprintf("talent(%d)", int(t))
}

// ParseTalentRank converts "A".."E" (any case) into a TalentRank.
func ParseTalentRank(s string) (TalentRank, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range talentNames {
		if n == want {
			return TalentRank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown talent rank %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TalentRank) UnmarshalText(b []byte) error {
	v, err := ParseTalentRank(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t TalentRank) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// TalentFactorRange returns the closed interval the talent factor is drawn from.
// Unknown ranks return [1, 1].
func TalentFactorRange(t TalentRank) (lo, hi float64) {
	if t < 0 || int(t) >= len(talentFactorRanges) {
		return 1, 1
	}
	r := talentFactorRanges[t]
	return r[0], r[1]
}

// TalentFactor draws the per-reincarnation talent multiplier for t.
// The caller keeps the value and applies it to every stat.
func TalentFactor(r *dice.Roller, t TalentRank) float64 {
	lo, hi := TalentFactorRange(t)
	return r.FloatRange(lo, hi)
}

// RollTalentRank draws a rank with weights A2/B8/C25/D40/E25.
func RollTalentRank(r *dice.Roller) TalentRank {
	total := 0
	for _, w := range talentWeights {
		total += w
	}
	v := r.Intn(total)
	for i, w := range talentWeights {
		if v < w {
			return TalentRank(i)
		}
		v -= w
	}
	return TalentE
}
