package growth

import (
	"fmt"
	"math"
	"strings"
)

// ExpCurve parameterises the EXP required to clear a level.
type ExpCurve struct {
	BaseExp        float64
	Factor         float64
	NormalMaxLevel int
	MaxLevel       int
	Bonus23        float64
	Bonus24        float64
	Bonus25        float64
	JobRankStep    float64
}

// DefaultExpCurve returns the stock curve: 120 EXP at level 1, x1.45 per level.
func DefaultExpCurve() ExpCurve {
	return ExpCurve{
		BaseExp:        120,
		Factor:         1.45,
		NormalMaxLevel: 22,
		MaxLevel:       DefaultMaxLevel,
		Bonus23:        2,
		Bonus24:        4,
		Bonus25:        8,
		JobRankStep:    0.3,
	}
}

func (c ExpCurve) bonus(targetLevel int) float64 {
	switch {
	case targetLevel == c.NormalMaxLevel+1:
		return c.Bonus23
	case targetLevel == c.NormalMaxLevel+2:
		return c.Bonus24
	case targetLevel >= c.NormalMaxLevel+3:
		return c.Bonus25
	default:
		return 1
	}
}

// RequiredExp returns the EXP needed to go from level to level+1.
//
// Postcondition: level < 1 is treated as level 1; level >= MaxLevel returns 0.
func (c ExpCurve) RequiredExp(level int) int {
	level = max(level, 1)
	if level >= c.MaxLevel {
		return 0
	}
	exp := min(max(level-1, 0), c.NormalMaxLevel-1)
	target := min(max(level+1, 2), c.MaxLevel)
	v := c.BaseExp * math.Pow(c.Factor, float64(exp)) * c.bonus(target)
	return int(math.Ceil(v))
}

// RequiredExpWithJob scales RequiredExp by soul-job difficulty and rank.
func (c ExpCurve) RequiredExpWithJob(level int, d JobDifficulty, soulJobRank int) int {
	base := c.RequiredExp(level)
	if base <= 0 {
		return 0
	}
	rankMul := 1 + c.JobRankStep*float64(ClampRank(soulJobRank)-1)
	return int(math.Ceil(float64(base) * d.Factor() * rankMul))
}

// JobDifficulty scales EXP requirements for a soul job.
type JobDifficulty int

const (
	Easy JobDifficulty = iota
	Hard
	VeryHard
)

var difficultyNames = []string{"easy", "hard", "very_hard"}

// Factor returns 1.0, 1.3 or 1.8.
func (d JobDifficulty) Factor() float64 {
	switch d {
	case Hard:
		return 1.3
	case VeryHard:
		return 1.8
	default:
		return 1.0
	}
}

func (d JobDifficulty) String() string {
	if d >= 0 && int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *JobDifficulty) UnmarshalText(b []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range difficultyNames {
		if n == want {
			*d = JobDifficulty(i)
			return nil
		}
	}
	return fmt.Errorf("unknown job difficulty %q", string(b))
}

// MarshalText implements encoding.TextMarshaler.
func (d JobDifficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// EnemyClass selects the EXP reward multiplier of a defeated enemy.
type EnemyClass int

const (
	EnemyNormal EnemyClass = iota
	EnemyElite
	EnemyGateKeeper
	EnemyBoss
)

// EnemyExpParams parameterises EnemyExpReward.
type EnemyExpParams struct {
	Base       float64
	RankFactor float64
	Elite      float64
	GateKeeper float64
	Boss       float64
}

// DefaultEnemyExpParams returns base 20, rank factor 3 and class multipliers 2/3/5.
func DefaultEnemyExpParams() EnemyExpParams {
	return EnemyExpParams{Base: 20, RankFactor: 3, Elite: 2, GateKeeper: 3, Boss: 5}
}

// EnemyExpReward returns ceil(Base * RankFactor^(rank-1) * classMul).
func (p EnemyExpParams) EnemyExpReward(rank int, class EnemyClass) int {
	mul := 1.0
	switch class {
	case EnemyElite:
		mul = p.Elite
	case EnemyGateKeeper:
		mul = p.GateKeeper
	case EnemyBoss:
		mul = p.Boss
	}
	v := p.Base * math.Pow(p.RankFactor, float64(ClampRank(rank)-1)) * mul
	return int(math.Ceil(v))
}
