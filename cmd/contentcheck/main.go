// Package main loads the content directory, checks every cross reference and
// prints a summary of what was found.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kikitora/spacejourney/internal/config"
	"github.com/kikitora/spacejourney/internal/game/dice"
	"github.com/kikitora/spacejourney/internal/game/ruleset"
	"github.com/kikitora/spacejourney/internal/observability"
	"github.com/kikitora/spacejourney/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and SJ_* env")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := ruleset.LoadDirectory(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}
	if err := repo.Validate(); err != nil {
		logger.Error("content references are broken", zap.Error(err))
		os.Exit(1)
	}

	scriptsLoaded := false
	if cfg.Content.ScriptDir != "" {
		mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), logger), logger)
		if err := mgr.LoadGlobal(cfg.Content.ScriptDir, cfg.Content.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.String("dir", cfg.Content.ScriptDir), zap.Error(err))
		}
		mgr.Close()
		scriptsLoaded = true
	}

	fmt.Fprintf(os.Stdout, "skills=%d races=%d body_jobs=%d soul_jobs=%d weapons=%d scripts_loaded=%v [%s]\n",
		len(repo.Skills()), len(repo.Races()), len(repo.BodyJobs()), len(repo.SoulJobs()), len(repo.Weapons()),
		scriptsLoaded, time.Since(start))
}
