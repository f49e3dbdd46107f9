package growth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/growth"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func fixedRoller(v int) *dice.Roller {
	return dice.NewLoggedRoller(fixedSrc{val: v}, zap.NewNop())
}

func seededRoller(seed uint64) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
}

func TestRankBaseStat_TableAndExtrapolation(t *testing.T) {
	assert.Equal(t, 45.0, growth.RankBaseStat(1))
	assert.Equal(t, 45.0, growth.RankBaseStat(0))
	assert.Equal(t, 45.0, growth.RankBaseStat(-3))
	assert.Equal(t, 135.0, growth.RankBaseStat(10))
	assert.Equal(t, 145.0, growth.RankBaseStat(11))
	assert.Equal(t, 165.0, growth.RankBaseStat(13))
}

func TestLv1Stat_FloorsTenthOfPotential(t *testing.T) {
	potential := growth.PotentialStat(growth.BaseStat(1, 1.0), 1.0, growth.DefaultEventFactor)
	assert.InDelta(t, 58.5, potential, 1e-9)
	assert.Equal(t, 5, growth.Lv1Stat(potential))
	assert.Equal(t, 0, growth.Lv1Stat(9.99))
}

func TestGrowthFactor_Endpoints(t *testing.T) {
	assert.Equal(t, 1.0, growth.GrowthFactor(1, growth.Normal, 6.0, 25))
	assert.Equal(t, 1.0, growth.GrowthFactor(0, growth.Late, 6.0, 25))
	assert.Equal(t, 6.0, growth.GrowthFactor(25, growth.Early, 6.0, 25))
	assert.Equal(t, 6.0, growth.GrowthFactor(40, growth.Early, 6.0, 25))
	assert.InDelta(t, 3.5, growth.GrowthFactor(13, growth.Normal, 6.0, 25), 1e-9)
}

func TestGrowthFactor_EarlyLeadsLate(t *testing.T) {
	early := growth.GrowthFactor(10, growth.Early, 6.0, 25)
	late := growth.GrowthFactor(10, growth.Late, 6.0, 25)
	assert.Greater(t, early, late)
}

func TestSoulStat_MonotonicInLevel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lv1 := rapid.IntRange(0, 50).Draw(rt, "lv1")
		g := growth.GrowthType(rapid.IntRange(0, 3).Draw(rt, "growth"))
		target := rapid.Float64Range(1.0, 9.0).Draw(rt, "target")
		a := rapid.IntRange(1, 25).Draw(rt, "a")
		b := rapid.IntRange(a, 25).Draw(rt, "b")
		fa := growth.GrowthFactor(a, g, target, growth.DefaultMaxLevel)
		fb := growth.GrowthFactor(b, g, target, growth.DefaultMaxLevel)
		if fa > fb {
			rt.Fatalf("factor(%d)=%v > factor(%d)=%v", a, fa, b, fb)
		}
		sa := growth.SoulStat(lv1, a, g, target, growth.DefaultMaxLevel)
		sb := growth.SoulStat(lv1, b, g, target, growth.DefaultMaxLevel)
		if sa > sb {
			rt.Fatalf("stat(%d)=%d > stat(%d)=%d", a, sa, b, sb)
		}
	})
}

func TestRound_HalfToEven(t *testing.T) {
	assert.Equal(t, 12, growth.Round(12.5))
	assert.Equal(t, 14, growth.Round(13.5))
	assert.Equal(t, -2, growth.Round(-2.5))
}

func TestRequiredExp_FirstLevels(t *testing.T) {
	c := growth.DefaultExpCurve()
	assert.Equal(t, 120, c.RequiredExp(1))
	assert.Equal(t, 174, c.RequiredExp(2))
}

func TestRequiredExp_Bounds(t *testing.T) {
	c := growth.DefaultExpCurve()
	assert.Equal(t, 120, c.RequiredExp(0))
	assert.Equal(t, 120, c.RequiredExp(-3))
	assert.Equal(t, c.RequiredExp(1), c.RequiredExpWithJob(0, growth.Easy, 1))
	assert.Equal(t, 0, c.RequiredExp(25))
	assert.Equal(t, 0, c.RequiredExp(30))
}

func TestRequiredExp_LateLevelBonuses(t *testing.T) {
	c := growth.DefaultExpCurve()
	top := 120 * math.Pow(1.45, 21)
	assert.Equal(t, int(math.Ceil(top*2)), c.RequiredExp(22))
	assert.Equal(t, int(math.Ceil(top*4)), c.RequiredExp(23))
	assert.Equal(t, int(math.Ceil(top*8)), c.RequiredExp(24))
	assert.Equal(t, int(math.Ceil(120*math.Pow(1.45, 20))), c.RequiredExp(21))
}

func TestRequiredExpWithJob(t *testing.T) {
	c := growth.DefaultExpCurve()
	assert.Equal(t, 120, c.RequiredExpWithJob(1, growth.Easy, 1))
	assert.Equal(t, 120, c.RequiredExpWithJob(1, growth.Easy, 0))
	assert.Equal(t, 203, c.RequiredExpWithJob(1, growth.Hard, 2))
	assert.Equal(t, 216, c.RequiredExpWithJob(1, growth.VeryHard, 1))
	assert.Equal(t, 0, c.RequiredExpWithJob(25, growth.VeryHard, 3))
}

func TestJobDifficulty_Text(t *testing.T) {
	var d growth.JobDifficulty
	require.NoError(t, d.UnmarshalText([]byte("very_hard")))
	assert.Equal(t, growth.VeryHard, d)
	assert.Error(t, d.UnmarshalText([]byte("trivial")))
}

func TestEnemyExpReward(t *testing.T) {
	p := growth.DefaultEnemyExpParams()
	assert.Equal(t, 20, p.EnemyExpReward(1, growth.EnemyNormal))
	assert.Equal(t, 20, p.EnemyExpReward(0, growth.EnemyNormal))
	assert.Equal(t, 120, p.EnemyExpReward(2, growth.EnemyElite))
	assert.Equal(t, 540, p.EnemyExpReward(3, growth.EnemyGateKeeper))
	assert.Equal(t, 300, p.EnemyExpReward(2, growth.EnemyBoss))
}

func TestBodyBand_Shape(t *testing.T) {
	lo, hi := growth.BodyHPBand(1)
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 115.0, hi)

	lo, hi = growth.BodyHPBand(5)
	assert.Equal(t, 201.25, lo)
	assert.Equal(t, 240.0, hi)

	lo, hi = growth.BodyHPBand(10)
	assert.Equal(t, 477.5, lo)
	assert.Equal(t, 600.0, hi)

	lo, hi = growth.BodyOtherBand(1)
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 14.5, hi)
}

func TestBodyBand_PastTableUsesExtrapolatedNeighbours(t *testing.T) {
	lo, hi := growth.BodyHPBand(11)
	assert.Equal(t, 567.5, lo)
	assert.Equal(t, 657.5, hi)

	lo10, hi10 := growth.BodyHPBand(10)
	assert.Less(t, lo10, lo)
	assert.Less(t, hi10, hi)
}

func TestGenerateBodyBase_WithinBand(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rank := rapid.IntRange(1, 20).Draw(rt, "rank")
		r := seededRoller(rapid.Uint64().Draw(rt, "seed"))

		lo, hi := growth.BodyHPBand(rank)
		if lo > hi {
			rt.Fatalf("inverted band [%v, %v]", lo, hi)
		}
		hp := growth.GenerateBodyHPBase(r, rank)
		if hp < max(1, growth.Round(lo)) || hp > growth.Round(hi) {
			rt.Fatalf("hp %d outside [%v, %v]", hp, lo, hi)
		}

		lo, hi = growth.BodyOtherBand(rank)
		other := growth.GenerateBodyOtherBase(r, rank)
		if other < max(1, growth.Round(lo)) || other > growth.Round(hi) {
			rt.Fatalf("other %d outside [%v, %v]", other, lo, hi)
		}
	})
}

func TestApplyJobMultiplierPercent(t *testing.T) {
	assert.Equal(t, 12, growth.ApplyJobMultiplierPercent(10, 125))
	assert.Equal(t, 1, growth.ApplyJobMultiplierPercent(10, 5))
	assert.Equal(t, 15, growth.ApplyJobMultiplierPercent(10, 150))
}

func TestEffectiveActionCost(t *testing.T) {
	p := growth.DefaultActionCostParams()
	assert.Equal(t, 0, growth.EffectiveActionCost(fixedRoller(0), 0, 300, p))
	assert.Equal(t, 5, growth.EffectiveActionCost(fixedRoller(0), 5, 0, p))
	// 600 agi at 0.95 jitter: 5 * (1 - 0.35*0.95) = 3.3375.
	assert.Equal(t, 3, growth.EffectiveActionCost(fixedRoller(0), 5, 600, p))
	// Reduction below one step keeps the base cost.
	assert.Equal(t, 2, growth.EffectiveActionCost(fixedRoller(0), 2, 100, p))
}

func TestEffectiveActionCost_Bounds(t *testing.T) {
	p := growth.DefaultActionCostParams()
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(1, 20).Draw(rt, "base")
		agi := rapid.IntRange(0, 2000).Draw(rt, "agi")
		r := seededRoller(rapid.Uint64().Draw(rt, "seed"))
		got := growth.EffectiveActionCost(r, base, agi, p)
		if got < 1 || got > base {
			rt.Fatalf("cost %d outside [1, %d]", got, base)
		}
	})
}

func TestRollTalentRank_Buckets(t *testing.T) {
	assert.Equal(t, growth.TalentA, growth.RollTalentRank(fixedRoller(0)))
	assert.Equal(t, growth.TalentA, growth.RollTalentRank(fixedRoller(1)))
	assert.Equal(t, growth.TalentB, growth.RollTalentRank(fixedRoller(2)))
	assert.Equal(t, growth.TalentC, growth.RollTalentRank(fixedRoller(10)))
	assert.Equal(t, growth.TalentD, growth.RollTalentRank(fixedRoller(35)))
	assert.Equal(t, growth.TalentE, growth.RollTalentRank(fixedRoller(75)))
	assert.Equal(t, growth.TalentE, growth.RollTalentRank(fixedRoller(99)))
}

func TestRollGrowthType_Buckets(t *testing.T) {
	assert.Equal(t, growth.Normal, growth.RollGrowthType(fixedRoller(0)))
	assert.Equal(t, growth.Early, growth.RollGrowthType(fixedRoller(40)))
	assert.Equal(t, growth.Late, growth.RollGrowthType(fixedRoller(72)))
	assert.Equal(t, growth.UltraLate, growth.RollGrowthType(fixedRoller(97)))
}

func TestTalentFactor_WithinRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rank := growth.TalentRank(rapid.IntRange(0, 4).Draw(rt, "rank"))
		r := seededRoller(rapid.Uint64().Draw(rt, "seed"))
		lo, hi := growth.TalentFactorRange(rank)
		f := growth.TalentFactor(r, rank)
		if f < lo || f > hi {
			rt.Fatalf("factor %v outside [%v, %v]", f, lo, hi)
		}
	})
}

func TestRandomGrowthTarget_WithinRange(t *testing.T) {
	for _, g := range []growth.GrowthType{growth.Early, growth.Normal, growth.Late, growth.UltraLate} {
		lo, hi := growth.GrowthTargetRange(g)
		v := growth.RandomGrowthTarget(seededRoller(7), g)
		assert.GreaterOrEqual(t, v, lo, g.String())
		assert.LessOrEqual(t, v, hi, g.String())
	}
}

func TestTextEnums(t *testing.T) {
	g, err := growth.ParseGrowthType("Ultra_Late")
	require.NoError(t, err)
	assert.Equal(t, growth.UltraLate, g)
	_, err = growth.ParseGrowthType("sideways")
	assert.Error(t, err)

	tr, err := growth.ParseTalentRank("c")
	require.NoError(t, err)
	assert.Equal(t, growth.TalentC, tr)
	_, err = growth.ParseTalentRank("S")
	assert.Error(t, err)
}
