// Package main runs seeded duels between randomly built teams and reports the
// outcome of each.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/config"
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/observability"
	"github.com/kikitora/spacejourney/internal/scripting"
	"github.com/kikitora/spacejourney/internal/simulation"
	"github.com/kikitora/spacejourney/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Uint64("seed", 0, "seed of the first battle; battle i uses seed+i (0 = random)")
	battles := flag.Int("battles", 10, "number of duels to run")
	workers := flag.Int("workers", 4, "duels run concurrently")
	teamSize := flag.Int("team-size", simulation.DefaultTeamSize, "units per side")
	rank := flag.Int("rank", simulation.DefaultRank, "rank of generated souls and bodies")
	maxTicks := flag.Int("max-ticks", simulation.DefaultMaxTicks, "tick limit per duel")
	persist := flag.Bool("persist", false, "save every combatant's final state to PostgreSQL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	contentStart := time.Now()
	repo, err := ruleset.LoadDirectory(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	if err := repo.Validate(); err != nil {
		logger.Fatal("validating content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", len(repo.Skills())),
		zap.Int("soul_jobs", len(repo.SoulJobs())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	opts := []simulation.Option{
		simulation.WithTeamSize(*teamSize),
		simulation.WithRank(*rank),
		simulation.WithMaxTicks(*maxTicks),
	}

	if cfg.Content.ScriptDir != "" {
		mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), logger), logger)
		if err := mgr.LoadGlobal(cfg.Content.ScriptDir, cfg.Content.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.String("dir", cfg.Content.ScriptDir), zap.Error(err))
		}
		defer mgr.Close()
		opts = append(opts, simulation.WithScripts(mgr))
	}

	if *persist {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			logger.Fatal("database health check", zap.Error(err))
		}
		opts = append(opts, simulation.WithStore(pool.Units()))
	}

	base := *seed
	if base == 0 {
		base = uint64(dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop()).Intn(1 << 31))
	}

	runner := simulation.NewRunner(repo, cfg.Balance, logger, opts...)
	outcomes, err := runner.Run(ctx, base, *battles, *workers)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	for _, o := range outcomes {
		winner := "none"
		if o.Decided {
			winner = o.Winner.String()
		}
		fmt.Fprintf(os.Stdout, "battle=%d seed=%d winner=%s ticks=%d events=%d survivors=%d\n",
			o.Battle, o.Seed, winner, o.Ticks, o.Events, len(o.Survivors))
	}
	t := simulation.Tally(outcomes)
	fmt.Fprintf(os.Stdout, "player=%d enemy=%d undecided=%d [%s]\n", t.PlayerWins, t.EnemyWins, t.Undecided, time.Since(start))
}
