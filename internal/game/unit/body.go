package unit

import "github.com/kikitora/spacejourney/internal/game/stat"

// Body is a fixed, rank-rolled additive stat block.
type Body struct {
	ID               string
	RaceID           string
	BodyJobID        string
	WeaponID         string
	WeaponCandidates []string
	Rank             int
	MaxHP            int
	Flat             stat.Block
}

// Stat returns the flat value for k; HP returns MaxHP.
func (b *Body) Stat(k stat.Kind) int {
	if b == nil {
		return 0
	}
	if k == stat.HP {
		return b.MaxHP
	}
	return b.Flat.Get(k)
}

// ApplyToSoulStat adds the body's flat value for k to soulStat, floored at 0.
func (b *Body) ApplyToSoulStat(soulStat int, k stat.Kind) int {
	return max(0, soulStat+b.Stat(k))
}
