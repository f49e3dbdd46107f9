// Package simulation runs seeded duels between randomly built teams so content
// and balance changes can be exercised end to end.
package simulation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kikitora/spacejourney/internal/config"
	"github.com/kikitora/spacejourney/internal/game/character"
	"github.com/kikitora/spacejourney/internal/game/combat"
	"github.com/kikitora/spacejourney/internal/game/condition"
	"github.com/kikitora/spacejourney/internal/game/damage"
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/game/skill"
	"github.com/kikitora/spacejourney/internal/game/trigger"
	"github.com/kikitora/spacejourney/internal/game/unit"
	"github.com/kikitora/spacejourney/internal/observability"
)

// Defaults for a Runner.
const (
	DefaultTeamSize = 2
	DefaultRank     = 1
	DefaultMaxTicks = 500
)

// ErrNoContent is returned when the repository cannot produce a unit.
var ErrNoContent = errors.New("content has no races or body jobs")

// Store persists the final state of a unit.
type Store interface {
	SaveUnit(ctx context.Context, u *unit.Unit) error
}

// Outcome summarises one duel.
type Outcome struct {
	Battle  int
	Seed    uint64
	Winner  combat.Side
	Decided bool
	Ticks   int
	Events  int
	// Survivors lists the IDs of units alive at the end.
	Survivors []string
}

// Runner builds and runs duels. It is safe for concurrent use as long as the
// Store and script runner are.
type Runner struct {
	repo     *ruleset.Repository
	balance  config.BalanceConfig
	logger   *zap.Logger
	scripts  condition.ScriptRunner
	store    Store
	teamSize int
	rank     int
	maxTicks int
}

// Option configures a Runner.
type Option func(*Runner)

// WithScripts evaluates Script conditions through s.
func WithScripts(s condition.ScriptRunner) Option {
	return func(r *Runner) { r.scripts = s }
}

// WithStore saves every combatant once its duel ends.
func WithStore(s Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithTeamSize sets the number of units per side; values below 1 are ignored.
func WithTeamSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.teamSize = n
		}
	}
}

// WithRank sets the rank of generated souls and bodies.
func WithRank(rank int) Option {
	return func(r *Runner) { r.rank = rank }
}

// WithMaxTicks bounds each duel; values below 1 are ignored.
func WithMaxTicks(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTicks = n
		}
	}
}

// NewRunner creates a Runner over repo.
//
// Precondition: repo and logger must be non-nil.
func NewRunner(repo *ruleset.Repository, balance config.BalanceConfig, logger *zap.Logger, opts ...Option) *Runner {
	if repo == nil {
		panic("simulation.NewRunner: repo must not be nil")
	}
	if logger == nil {
		panic("simulation.NewRunner: logger must not be nil")
	}
	r := &Runner{
		repo:     repo,
		balance:  balance,
		logger:   logger,
		teamSize: DefaultTeamSize,
		rank:     DefaultRank,
		maxTicks: DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Duel builds two teams from a roller seeded with seed and fights them out.
//
// Postcondition: the same repository, balance and seed produce the same
// Outcome when no script draws dice.
func (r *Runner) Duel(ctx context.Context, battle int, seed uint64) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	logger := observability.BattleLogger(r.logger, battle, seed)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), logger)

	var combatants []*combat.Combatant
	for _, side := range []combat.Side{combat.SidePlayer, combat.SideEnemy} {
		for i := range r.teamSize {
			c, err := r.combatant(roller, side, i)
			if err != nil {
				return Outcome{}, fmt.Errorf("battle %d: %w", battle, err)
			}
			combatants = append(combatants, c)
		}
	}

	bus := trigger.NewBus(logger)
	engine := damage.NewEngine(r.balance.DamageParams(), roller, logger)
	resolver := skill.NewResolver(engine, roller, logger, skill.WithBus(bus))
	first := combat.SidePlayer
	if roller.Intn(2) == 1 {
		first = combat.SideEnemy
	}
	b, err := combat.NewBattle(combatants, resolver, roller, logger,
		combat.WithBus(bus),
		combat.WithEvaluator(condition.NewEvaluator(r.scripts)),
		combat.WithFirstStrike(first),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("battle %d: %w", battle, err)
	}
	winner, decided := b.Run(r.maxTicks)

	out := Outcome{
		Battle:  battle,
		Seed:    seed,
		Winner:  winner,
		Decided: decided,
		Ticks:   b.Now(),
		Events:  len(b.Events()),
	}
	for _, c := range b.Combatants() {
		if c.Alive() {
			out.Survivors = append(out.Survivors, c.ID())
		}
	}

	if r.store != nil {
		for _, c := range b.Combatants() {
			if err := r.store.SaveUnit(ctx, c.Unit); err != nil {
				return out, fmt.Errorf("battle %d: saving %s: %w", battle, c.ID(), err)
			}
		}
	}
	return out, nil
}

func (r *Runner) combatant(roller *dice.Roller, side combat.Side, idx int) (*combat.Combatant, error) {
	races, jobs := r.repo.Races(), r.repo.BodyJobs()
	if len(races) == 0 || len(jobs) == 0 {
		return nil, ErrNoContent
	}
	var weapons []string
	for _, w := range r.repo.Weapons() {
		weapons = append(weapons, w.ID)
	}

	body, err := character.NewBody(r.repo, roller, character.BodyRequest{
		RaceID:           races[roller.Intn(len(races))].ID,
		BodyJobID:        jobs[roller.Intn(len(jobs))].ID,
		Rank:             r.rank,
		WeaponCandidates: weapons,
	})
	if err != nil {
		return nil, err
	}
	soul, err := character.NewSoul(r.repo, roller, character.SoulRequest{
		Name:     fmt.Sprintf("%s-%d", side, idx+1),
		Rank:     r.rank,
		MaxLevel: r.balance.Growth.MaxLevel,
	})
	if err != nil {
		return nil, err
	}
	u := character.NewUnit("", soul, body, unit.WithActionCostParams(r.balance.ActionCostParams()))
	return &combat.Combatant{
		Unit:   u,
		Side:   side,
		Skills: character.Loadout(r.repo, soul, body),
	}, nil
}

// Run fights battles duels on at most workers goroutines. Battle i uses seed
// baseSeed+i.
//
// Postcondition: outcomes are ordered by battle index; the first error
// cancels the remaining duels.
func (r *Runner) Run(ctx context.Context, baseSeed uint64, battles, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, battles)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range battles {
		g.Go(func() error {
			out, err := r.Duel(gctx, i, baseSeed+uint64(i))
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tally := Tally(outcomes)
	r.logger.Info("simulation finished",
		zap.Int("battles", battles),
		zap.Int("player_wins", tally.PlayerWins),
		zap.Int("enemy_wins", tally.EnemyWins),
		zap.Int("undecided", tally.Undecided),
	)
	return outcomes, nil
}

// Totals counts duel results.
type Totals struct {
	PlayerWins int
	EnemyWins  int
	Undecided  int
}

// Tally counts wins per side across outcomes.
func Tally(outcomes []Outcome) Totals {
	var t Totals
	for _, o := range outcomes {
		switch {
		case !o.Decided:
			t.Undecided++
		case o.Winner == combat.SidePlayer:
			t.PlayerWins++
		default:
			t.EnemyWins++
		}
	}
	return t
}
