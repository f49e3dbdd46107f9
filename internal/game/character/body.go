// Package character builds souls, bodies and units from ruleset content.
package character

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/growth"
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/game/stat"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// BodyRequest selects the content a random body is rolled from.
type BodyRequest struct {
	RaceID           string
	BodyJobID        string
	Rank             int
	WeaponCandidates []string
}

// NewBody rolls a body of the requested rank. Each stat is sampled
// separately from its rank band, then scaled by the job and race multipliers.
//
// Precondition: repo and roller must be non-nil.
// Postcondition: Returns a body with a fresh ID and every stat >= 1, or an
// error when the race or body job is unknown.
func NewBody(repo *ruleset.Repository, roller *dice.Roller, req BodyRequest) (*unit.Body, error) {
	race, ok := repo.Race(req.RaceID)
	if !ok {
		return nil, fmt.Errorf("unknown race %q", req.RaceID)
	}
	job, ok := repo.BodyJob(req.BodyJobID)
	if !ok {
		return nil, fmt.Errorf("unknown body job %q", req.BodyJobID)
	}
	rank := growth.ClampRank(req.Rank)
	scale := func(base int, k stat.Kind) int {
		return max(1, growth.Round(float64(base)*job.Multipliers.Get(k)*race.Multipliers.Get(k)))
	}

	b := &unit.Body{
		ID:               uuid.NewString(),
		RaceID:           race.ID,
		BodyJobID:        job.ID,
		Rank:             rank,
		WeaponCandidates: append([]string(nil), req.WeaponCandidates...),
		MaxHP:            scale(growth.GenerateBodyHPBase(roller, rank), stat.HP),
	}
	for _, k := range stat.Growable {
		b.Flat.Set(k, scale(growth.GenerateBodyOtherBase(roller, rank), k))
	}
	b.WeaponID = pickWeapon(repo, roller, req.WeaponCandidates)
	return b, nil
}

// pickWeapon returns a uniformly drawn candidate known to repo, or "".
func pickWeapon(repo *ruleset.Repository, roller *dice.Roller, candidates []string) string {
	var valid []string
	for _, id := range candidates {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := repo.Weapon(id); ok {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	return valid[roller.Intn(len(valid))]
}

// FixedBody builds a body from explicit values, clamping HP to >= 1 and the
// other stats to >= 0.
func FixedBody(raceID, bodyJobID, weaponID string, rank, hp int, flat stat.Block) *unit.Body {
	b := &unit.Body{
		ID:        uuid.NewString(),
		RaceID:    raceID,
		BodyJobID: bodyJobID,
		WeaponID:  weaponID,
		Rank:      growth.ClampRank(rank),
		MaxHP:     max(1, hp),
	}
	for i, v := range flat {
		b.Flat[i] = max(0, v)
	}
	return b
}
