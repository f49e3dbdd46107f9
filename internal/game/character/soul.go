package character

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// SoulRequest describes a soul to create. Nil pointer fields are rolled.
type SoulRequest struct {
	Name          string
	Title         string
	Rank          int
	Level         int
	MaxLevel      int
	JobID         string
	Tendency      *ruleset.Tendency
	Talent        *growth.TalentRank
	GrowthType    *growth.GrowthType
	Lv1           *stat.Block
	GrowthTargets *stat.FloatBlock
	Bonuses       stat.Block
}

// NewSoul creates a soul with one selected reincarnation.
//
// The soul job resolves by JobID, then by Tendency, then by an ease-weighted
// draw over all jobs. Lv1 stats are derived from the rank table, the job
// multiplier, one talent factor draw and the event factor.
//
// Precondition: repo and roller must be non-nil.
// Postcondition: Returns a soul whose current reincarnation has learned every
// job skill unlocked at or below its rank, or an error when no job resolves.
func NewSoul(repo *ruleset.Repository, roller *dice.Roller, req SoulRequest) (*unit.Soul, error) {
	job, err := resolveJob(repo, roller, req)
	if err != nil {
		return nil, err
	}
	rank := growth.ClampRank(req.Rank)

	talent := growth.RollTalentRank(roller)
	if req.Talent != nil {
		talent = *req.Talent
	}
	gType := growth.RollGrowthType(roller)
	if req.GrowthType != nil {
		gType = *req.GrowthType
	}

	var lv1 stat.Block
	if req.Lv1 != nil {
		lv1 = *req.Lv1
	} else {
		factor := growth.TalentFactor(roller, talent)
		for _, k := range stat.Growable {
			base := growth.BaseStat(rank, job.Multiplier(k))
			lv1.Set(k, growth.Lv1Stat(growth.PotentialStat(base, factor, growth.DefaultEventFactor)))
		}
	}

	var targets stat.FloatBlock
	if req.GrowthTargets != nil {
		targets = *req.GrowthTargets
	} else {
		for _, k := range stat.Growable {
			targets.Set(k, growth.RandomGrowthTarget(roller, gType))
		}
	}

	maxLevel := req.MaxLevel
	if maxLevel <= 1 {
		maxLevel = growth.DefaultMaxLevel
	}
	title := req.Title
	if title == "" {
		title = job.Name
	}

	s := &unit.Soul{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Talent:   talent,
		Tendency: job.Tendency.String(),
		MaxLevel: maxLevel,
		Reincarnations: []unit.Reincarnation{{
			ID:            uuid.NewString(),
			Title:         title,
			Rank:          rank,
			GrowthType:    gType,
			SoulJobID:     job.ID,
			Level:         1,
			Lv1:           lv1,
			GrowthTarget:  targets,
			Bonus:         req.Bonuses,
			LearnedSkills: job.SkillsUpTo(rank),
		}},
	}
	if req.Level > 1 {
		s.SetLevel(req.Level)
	}
	return s, nil
}

func resolveJob(repo *ruleset.Repository, roller *dice.Roller, req SoulRequest) (*ruleset.SoulJobDefinition, error) {
	if req.JobID != "" {
		job, ok := repo.SoulJob(req.JobID)
		if !ok {
			return nil, fmt.Errorf("unknown soul job %q", req.JobID)
		}
		return job, nil
	}
	job, err := repo.PickSoulJob(roller, req.Tendency)
	if err != nil {
		return nil, fmt.Errorf("resolving soul job: %w", err)
	}
	return job, nil
}

// NewUnit wires a soul and body into a unit with a fresh ID. An empty name
// falls back to the soul's name.
func NewUnit(name string, soul *unit.Soul, body *unit.Body, opts ...unit.Option) *unit.Unit {
	if name == "" && soul != nil {
		name = soul.Name
	}
	return unit.New(uuid.NewString(), name, soul, body, opts...)
}
