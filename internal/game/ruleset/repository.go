package ruleset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/skill"
)

// Content subdirectories read by LoadDirectory.
const (
	SkillsDir   = "skills"
	RacesDir    = "races"
	BodyJobsDir = "body_jobs"
	SoulJobsDir = "soul_jobs"
	WeaponsDir  = "weapons"
)

// Repository holds every loaded content definition keyed by ID.
// It is populated once at startup and read-only afterwards.
type Repository struct {
	skills   map[string]*skill.Definition
	races    map[string]*RaceDefinition
	bodyJobs map[string]*BodyJobDefinition
	soulJobs map[string]*SoulJobDefinition
	weapons  map[string]*WeaponDefinition
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		skills:   make(map[string]*skill.Definition),
		races:    make(map[string]*RaceDefinition),
		bodyJobs: make(map[string]*BodyJobDefinition),
		soulJobs: make(map[string]*SoulJobDefinition),
		weapons:  make(map[string]*WeaponDefinition),
	}
}

func register[T any](m map[string]*T, kind string, d *T, id func(*T) string) {
	if d == nil {
		panic(fmt.Sprintf("ruleset: Register%s called with nil definition", kind))
	}
	k := id(d)
	if k == "" {
		panic(fmt.Sprintf("ruleset: Register%s called with empty ID", kind))
	}
	m[k] = d
}

// RegisterSkill adds or replaces a skill definition.
//
// Precondition: d must be non-nil with a non-empty ID.
func (r *Repository) RegisterSkill(d *skill.Definition) {
	register(r.skills, "Skill", d, func(d *skill.Definition) string { return d.ID })
}

// RegisterRace adds or replaces a race definition.
func (r *Repository) RegisterRace(d *RaceDefinition) {
	register(r.races, "Race", d, func(d *RaceDefinition) string { return d.ID })
}

// RegisterBodyJob adds or replaces a body job definition.
func (r *Repository) RegisterBodyJob(d *BodyJobDefinition) {
	register(r.bodyJobs, "BodyJob", d, func(d *BodyJobDefinition) string { return d.ID })
}

// RegisterSoulJob adds or replaces a soul job definition.
func (r *Repository) RegisterSoulJob(d *SoulJobDefinition) {
	register(r.soulJobs, "SoulJob", d, func(d *SoulJobDefinition) string { return d.ID })
}

// RegisterWeapon adds or replaces a weapon definition.
func (r *Repository) RegisterWeapon(d *WeaponDefinition) {
	register(r.weapons, "Weapon", d, func(d *WeaponDefinition) string { return d.ID })
}

// Skill returns the skill with id.
func (r *Repository) Skill(id string) (*skill.Definition, bool) {
	d, ok := r.skills[id]
	return d, ok
}

// Race returns the race with id.
func (r *Repository) Race(id string) (*RaceDefinition, bool) {
	d, ok := r.races[id]
	return d, ok
}

// BodyJob returns the body job with id.
func (r *Repository) BodyJob(id string) (*BodyJobDefinition, bool) {
	d, ok := r.bodyJobs[id]
	return d, ok
}

// SoulJob returns the soul job with id.
func (r *Repository) SoulJob(id string) (*SoulJobDefinition, bool) {
	d, ok := r.soulJobs[id]
	return d, ok
}

// Weapon returns the weapon with id.
func (r *Repository) Weapon(id string) (*WeaponDefinition, bool) {
	d, ok := r.weapons[id]
	return d, ok
}

func sortedValues[T any](m map[string]*T) []*T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// Skills returns all skills sorted by ID.
func (r *Repository) Skills() []*skill.Definition { return sortedValues(r.skills) }

// Races returns all races sorted by ID.
func (r *Repository) Races() []*RaceDefinition { return sortedValues(r.races) }

// BodyJobs returns all body jobs sorted by ID.
func (r *Repository) BodyJobs() []*BodyJobDefinition { return sortedValues(r.bodyJobs) }

// Weapons returns all weapons sorted by ID.
func (r *Repository) Weapons() []*WeaponDefinition { return sortedValues(r.weapons) }

// SoulJobs returns all soul jobs sorted by ID.
func (r *Repository) SoulJobs() []*SoulJobDefinition { return sortedValues(r.soulJobs) }

// SoulJobsByTendency returns the soul jobs with tendency t, sorted by ID.
func (r *Repository) SoulJobsByTendency(t Tendency) []*SoulJobDefinition {
	var out []*SoulJobDefinition
	for _, j := range r.SoulJobs() {
		if j.Tendency == t {
			out = append(out, j)
		}
	}
	return out
}

// ErrNoSoulJob is returned when no soul job matches a pick request.
var ErrNoSoulJob = errors.New("ruleset: no soul job available")

// PickSoulJob draws a soul job weighted by EasePercent, restricted to
// tendency when it is non-nil. When every weight is zero the draw is uniform.
//
// Postcondition: returns a registered job, or ErrNoSoulJob when none match.
func (r *Repository) PickSoulJob(roller *dice.Roller, tendency *Tendency) (*SoulJobDefinition, error) {
	pool := r.SoulJobs()
	if tendency != nil {
		pool = r.SoulJobsByTendency(*tendency)
	}
	if len(pool) == 0 {
		return nil, ErrNoSoulJob
	}
	total := 0
	for _, j := range pool {
		total += max(0, j.EasePercent)
	}
	if total <= 0 {
		return pool[roller.Intn(len(pool))], nil
	}
	pick := roller.Intn(total)
	for _, j := range pool {
		w := max(0, j.EasePercent)
		if pick < w {
			return j, nil
		}
		pick -= w
	}
	return pool[len(pool)-1], nil
}

// Validate reports every skill reference that names an unregistered skill.
//
// Postcondition: returns nil when all references resolve, otherwise one
// joined error per dangling reference.
func (r *Repository) Validate() error {
	var errs []error
	check := func(owner, id string) {
		if id == "" {
			return
		}
		if _, ok := r.skills[id]; !ok {
			errs = append(errs, fmt.Errorf("%s references unknown skill %q", owner, id))
		}
	}
	for _, d := range sortedValues(r.races) {
		check("race "+d.ID, d.RacialSkillID)
	}
	for _, d := range sortedValues(r.bodyJobs) {
		for _, id := range d.BaseSkillIDs {
			check("body job "+d.ID, id)
		}
	}
	for _, d := range sortedValues(r.soulJobs) {
		for _, s := range d.SkillSets {
			check("soul job "+d.ID, s.SkillID)
		}
	}
	for _, d := range sortedValues(r.weapons) {
		check("weapon "+d.ID, d.EffectSkillID)
	}
	return errors.Join(errs...)
}

// LoadDirectory loads content from the standard subdirectories of dir.
// Missing subdirectories are skipped.
//
// Precondition: dir must exist.
// Postcondition: returns a populated Repository or the first parse error.
func LoadDirectory(dir string) (*Repository, error) {
	r := NewRepository()
	skills, err := loadOptional(filepath.Join(dir, SkillsDir), func() *skill.Definition { return skill.NewDefinition("") })
	if err != nil {
		return nil, err
	}
	for _, d := range skills {
		d.Normalize()
		if d.ID == "" {
			return nil, fmt.Errorf("skill with empty id in %s", SkillsDir)
		}
		r.RegisterSkill(d)
	}
	races, err := loadOptional(filepath.Join(dir, RacesDir), newRace)
	if err != nil {
		return nil, err
	}
	for _, d := range races {
		if err := requireID(RacesDir, d.ID); err != nil {
			return nil, err
		}
		r.RegisterRace(d)
	}
	bodyJobs, err := loadOptional(filepath.Join(dir, BodyJobsDir), newBodyJob)
	if err != nil {
		return nil, err
	}
	for _, d := range bodyJobs {
		if err := requireID(BodyJobsDir, d.ID); err != nil {
			return nil, err
		}
		r.RegisterBodyJob(d)
	}
	soulJobs, err := loadOptional(filepath.Join(dir, SoulJobsDir), newSoulJob)
	if err != nil {
		return nil, err
	}
	for _, d := range soulJobs {
		if err := requireID(SoulJobsDir, d.ID); err != nil {
			return nil, err
		}
		r.RegisterSoulJob(d)
	}
	weapons, err := loadOptional(filepath.Join(dir, WeaponsDir), newWeapon)
	if err != nil {
		return nil, err
	}
	for _, d := range weapons {
		if err := requireID(WeaponsDir, d.ID); err != nil {
			return nil, err
		}
		r.RegisterWeapon(d)
	}
	return r, nil
}

func requireID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("definition with empty id in %s", kind)
	}
	return nil
}

func loadOptional[T any](dir string, newT func() *T) ([]*T, error) {
	if !dirExists(dir) {
		return nil, nil
	}
	return loadAll(dir, newT)
}
