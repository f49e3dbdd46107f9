// Package unit composes souls, bodies and status effects into combat units.
package unit

import (
	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/stat"
)

// Reincarnation is one life of a soul: its rank, job and growth profile.
type Reincarnation struct {
	ID            string
	Title         string
	Rank          int
	GrowthType    growth.GrowthType
	SoulJobID     string
	Level         int
	CurrentExp    int
	Lv1           stat.Block
	GrowthTarget  stat.FloatBlock
	Bonus         stat.Block
	LearnedSkills []string
}

// Soul is the persistent growth profile of a character.
type Soul struct {
	ID             string
	Name           string
	Talent         growth.TalentRank
	Tendency       string
	MaxLevel       int
	Reincarnations []Reincarnation
	Selected       int
}

// Current returns the selected reincarnation, or nil when there is none.
func (s *Soul) Current() *Reincarnation {
	if s == nil || s.Selected < 0 || s.Selected >= len(s.Reincarnations) {
		return nil
	}
	return &s.Reincarnations[s.Selected]
}

func (s *Soul) maxLevel() int {
	if s.MaxLevel <= 1 {
		return growth.DefaultMaxLevel
	}
	return s.MaxLevel
}

// Stat returns the soul contribution for k at the current level.
//
// Postcondition: HP and a soul without a reincarnation return 0; otherwise
// the result is max(0, SoulStat + permanent bonus).
func (s *Soul) Stat(k stat.Kind) int {
	r := s.Current()
	if r == nil || k.Index() < 0 {
		return 0
	}
	base := growth.SoulStat(r.Lv1.Get(k), r.Level, r.GrowthType, r.GrowthTarget.Get(k), s.maxLevel())
	return max(0, base+r.Bonus.Get(k))
}

// AddPermanentBonus adds v to the permanent bonus of k.
func (s *Soul) AddPermanentBonus(k stat.Kind, v int) {
	if r := s.Current(); r != nil {
		r.Bonus.Set(k, r.Bonus.Get(k)+v)
	}
}

// AddExp adds n EXP to the current reincarnation; n <= 0 is ignored.
func (s *Soul) AddExp(n int) {
	if r := s.Current(); r != nil && n > 0 {
		r.CurrentExp += n
	}
}

// LevelUp spends EXP on levels while enough has been banked.
//
// Postcondition: returns the number of levels gained; the level never
// exceeds the curve's MaxLevel.
func (s *Soul) LevelUp(curve growth.ExpCurve, d growth.JobDifficulty) int {
	r := s.Current()
	if r == nil {
		return 0
	}
	gained := 0
	for r.Level < curve.MaxLevel {
		req := curve.RequiredExpWithJob(r.Level, d, r.Rank)
		if req <= 0 || r.CurrentExp < req {
			break
		}
		r.CurrentExp -= req
		r.Level++
		gained++
	}
	return gained
}

// SetLevel sets the current level, clamped to [1, MaxLevel].
func (s *Soul) SetLevel(level int) {
	if r := s.Current(); r != nil {
		r.Level = min(max(1, level), s.maxLevel())
	}
}

// SetRank sets the current rank, clamped at 1.
func (s *Soul) SetRank(rank int) {
	if r := s.Current(); r != nil {
		r.Rank = growth.ClampRank(rank)
	}
}
