package character

import (
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/game/skill"
	"github.com/kikitora/spacejourney/internal/game/unit"
)

// Loadout gathers the skills a unit can use: the soul's learned skills, then
// the body job's base skills, the racial skill and the weapon effect skill.
//
// Postcondition: each skill appears once, in that order; unknown IDs are skipped.
func Loadout(repo *ruleset.Repository, soul *unit.Soul, body *unit.Body) []*skill.Definition {
	var ids []string
	if soul != nil {
		if re := soul.Current(); re != nil {
			ids = append(ids, re.LearnedSkills...)
		}
	}
	if body != nil {
		if job, ok := repo.BodyJob(body.BodyJobID); ok {
			ids = append(ids, job.BaseSkillIDs...)
		}
		if race, ok := repo.Race(body.RaceID); ok && race.RacialSkillID != "" {
			ids = append(ids, race.RacialSkillID)
		}
		if w, ok := repo.Weapon(body.WeaponID); ok && w.EffectSkillID != "" {
			ids = append(ids, w.EffectSkillID)
		}
	}

	seen := make(map[string]bool, len(ids))
	var out []*skill.Definition
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if def, ok := repo.Skill(id); ok {
			out = append(out, def)
		}
	}
	return out
}
