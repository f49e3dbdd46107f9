// Package config provides Viper-based configuration loading for the
// SpaceJourney tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kikitora/spacejourney/internal/game/damage"
	"github.com/kikitora/spacejourney/internal/game/growth"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. Empty means stderr.
	Output string `mapstructure:"output"`
}

// ContentConfig locates the YAML content and Lua scripts.
type ContentConfig struct {
	Dir       string `mapstructure:"dir"`
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// DamageBalance mirrors damage.Params.
type DamageBalance struct {
	ThroughEqual float64 `mapstructure:"through_equal"`
	DeltaScale   float64 `mapstructure:"delta_scale"`
	ThroughMin   float64 `mapstructure:"through_min"`
	ThroughMax   float64 `mapstructure:"through_max"`
	ChipMin      int     `mapstructure:"chip_min"`
	ChipMax      int     `mapstructure:"chip_max"`
	VarianceMin  float64 `mapstructure:"variance_min"`
	VarianceMax  float64 `mapstructure:"variance_max"`
}

// GrowthBalance holds the soul growth constants.
type GrowthBalance struct {
	MaxLevel    int     `mapstructure:"max_level"`
	EventFactor float64 `mapstructure:"event_factor"`
}

// ExpBalance mirrors growth.ExpCurve plus the enemy reward table.
type ExpBalance struct {
	BaseExp        float64 `mapstructure:"base_exp"`
	Factor         float64 `mapstructure:"factor"`
	NormalMaxLevel int     `mapstructure:"normal_max_level"`
	Bonus23        float64 `mapstructure:"bonus_23"`
	Bonus24        float64 `mapstructure:"bonus_24"`
	Bonus25        float64 `mapstructure:"bonus_25"`
	JobRankStep    float64 `mapstructure:"job_rank_step"`

	EnemyBase       float64 `mapstructure:"enemy_base"`
	EnemyRankFactor float64 `mapstructure:"enemy_rank_factor"`
	EliteMul        float64 `mapstructure:"elite_mul"`
	GateKeeperMul   float64 `mapstructure:"gate_keeper_mul"`
	BossMul         float64 `mapstructure:"boss_mul"`
}

// ActionBalance mirrors growth.ActionCostParams.
type ActionBalance struct {
	AgilityCap   float64 `mapstructure:"agility_cap"`
	MaxReduction float64 `mapstructure:"max_reduction"`
	MinStep      float64 `mapstructure:"min_step"`
	JitterMin    float64 `mapstructure:"jitter_min"`
	JitterMax    float64 `mapstructure:"jitter_max"`
}

// BoardBalance sizes the standard board.
type BoardBalance struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// BalanceConfig groups every tunable engine constant.
type BalanceConfig struct {
	Damage DamageBalance `mapstructure:"damage"`
	Growth GrowthBalance `mapstructure:"growth"`
	Exp    ExpBalance    `mapstructure:"exp"`
	Action ActionBalance `mapstructure:"action"`
	Board  BoardBalance  `mapstructure:"board"`
}

// DamageParams converts the damage section.
func (b BalanceConfig) DamageParams() damage.Params {
	d := b.Damage
	return damage.Params{
		ThroughEqual: d.ThroughEqual,
		DeltaScale:   d.DeltaScale,
		ThroughMin:   d.ThroughMin,
		ThroughMax:   d.ThroughMax,
		ChipMin:      d.ChipMin,
		ChipMax:      d.ChipMax,
		VarianceMin:  d.VarianceMin,
		VarianceMax:  d.VarianceMax,
	}
}

// ExpCurve converts the exp section; MaxLevel comes from the growth section.
func (b BalanceConfig) ExpCurve() growth.ExpCurve {
	e := b.Exp
	return growth.ExpCurve{
		BaseExp:        e.BaseExp,
		Factor:         e.Factor,
		NormalMaxLevel: e.NormalMaxLevel,
		MaxLevel:       b.Growth.MaxLevel,
		Bonus23:        e.Bonus23,
		Bonus24:        e.Bonus24,
		Bonus25:        e.Bonus25,
		JobRankStep:    e.JobRankStep,
	}
}

// EnemyExp converts the enemy reward table.
func (b BalanceConfig) EnemyExp() growth.EnemyExpParams {
	e := b.Exp
	return growth.EnemyExpParams{
		Base:       e.EnemyBase,
		RankFactor: e.EnemyRankFactor,
		Elite:      e.EliteMul,
		GateKeeper: e.GateKeeperMul,
		Boss:       e.BossMul,
	}
}

// ActionCostParams converts the action section.
func (b BalanceConfig) ActionCostParams() growth.ActionCostParams {
	a := b.Action
	return growth.ActionCostParams{
		AgilityCap:   a.AgilityCap,
		MaxReduction: a.MaxReduction,
		MinStep:      a.MinStep,
		JitterMin:    a.JitterMin,
		JitterMax:    a.JitterMax,
	}
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Content  ContentConfig  `mapstructure:"content"`
	Balance  BalanceConfig  `mapstructure:"balance"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateContent(c.Content),
		validateBalance(c.Balance),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joined(errs []string) error {
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return joined(errs)
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	return joined(errs)
}

func validateRange(errs []string, name string, lo, hi float64) []string {
	if lo > hi {
		errs = append(errs, fmt.Sprintf("%s range is inverted (%g > %g)", name, lo, hi))
	}
	return errs
}

func validatePositive(errs []string, name string, v float64) []string {
	if v <= 0 {
		errs = append(errs, fmt.Sprintf("%s must be > 0, got %g", name, v))
	}
	return errs
}

func validateBalance(b BalanceConfig) error {
	var errs []string
	d := b.Damage
	errs = validatePositive(errs, "balance.damage.through_equal", d.ThroughEqual)
	errs = validatePositive(errs, "balance.damage.delta_scale", d.DeltaScale)
	errs = validateRange(errs, "balance.damage.through", d.ThroughMin, d.ThroughMax)
	errs = validateRange(errs, "balance.damage.chip", float64(d.ChipMin), float64(d.ChipMax))
	errs = validateRange(errs, "balance.damage.variance", d.VarianceMin, d.VarianceMax)

	if b.Growth.MaxLevel < 2 {
		errs = append(errs, fmt.Sprintf("balance.growth.max_level must be >= 2, got %d", b.Growth.MaxLevel))
	}
	errs = validatePositive(errs, "balance.growth.event_factor", b.Growth.EventFactor)

	e := b.Exp
	errs = validatePositive(errs, "balance.exp.base_exp", e.BaseExp)
	errs = validatePositive(errs, "balance.exp.factor", e.Factor)
	if e.NormalMaxLevel < 1 || e.NormalMaxLevel > b.Growth.MaxLevel {
		errs = append(errs, fmt.Sprintf("balance.exp.normal_max_level must be in [1, max_level], got %d", e.NormalMaxLevel))
	}
	errs = validatePositive(errs, "balance.exp.enemy_base", e.EnemyBase)
	errs = validatePositive(errs, "balance.exp.enemy_rank_factor", e.EnemyRankFactor)

	a := b.Action
	errs = validatePositive(errs, "balance.action.agility_cap", a.AgilityCap)
	if a.MaxReduction < 0 || a.MaxReduction >= 1 {
		errs = append(errs, fmt.Sprintf("balance.action.max_reduction must be in [0, 1), got %g", a.MaxReduction))
	}
	errs = validateRange(errs, "balance.action.jitter", a.JitterMin, a.JitterMax)

	if b.Board.Width < 1 || b.Board.Height < 1 {
		errs = append(errs, fmt.Sprintf("balance.board size must be positive, got %dx%d", b.Board.Width, b.Board.Height))
	}
	return joined(errs)
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "spacejourney")
	v.SetDefault("database.password", "spacejourney")
	v.SetDefault("database.name", "spacejourney")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.script_dir", "")
	v.SetDefault("content.instruction_limit", 0)

	dp := damage.DefaultParams()
	v.SetDefault("balance.damage.through_equal", dp.ThroughEqual)
	v.SetDefault("balance.damage.delta_scale", dp.DeltaScale)
	v.SetDefault("balance.damage.through_min", dp.ThroughMin)
	v.SetDefault("balance.damage.through_max", dp.ThroughMax)
	v.SetDefault("balance.damage.chip_min", dp.ChipMin)
	v.SetDefault("balance.damage.chip_max", dp.ChipMax)
	v.SetDefault("balance.damage.variance_min", dp.VarianceMin)
	v.SetDefault("balance.damage.variance_max", dp.VarianceMax)

	v.SetDefault("balance.growth.max_level", growth.DefaultMaxLevel)
	v.SetDefault("balance.growth.event_factor", growth.DefaultEventFactor)

	ec := growth.DefaultExpCurve()
	v.SetDefault("balance.exp.base_exp", ec.BaseExp)
	v.SetDefault("balance.exp.factor", ec.Factor)
	v.SetDefault("balance.exp.normal_max_level", ec.NormalMaxLevel)
	v.SetDefault("balance.exp.bonus_23", ec.Bonus23)
	v.SetDefault("balance.exp.bonus_24", ec.Bonus24)
	v.SetDefault("balance.exp.bonus_25", ec.Bonus25)
	v.SetDefault("balance.exp.job_rank_step", ec.JobRankStep)
	ee := growth.DefaultEnemyExpParams()
	v.SetDefault("balance.exp.enemy_base", ee.Base)
	v.SetDefault("balance.exp.enemy_rank_factor", ee.RankFactor)
	v.SetDefault("balance.exp.elite_mul", ee.Elite)
	v.SetDefault("balance.exp.gate_keeper_mul", ee.GateKeeper)
	v.SetDefault("balance.exp.boss_mul", ee.Boss)

	ap := growth.DefaultActionCostParams()
	v.SetDefault("balance.action.agility_cap", ap.AgilityCap)
	v.SetDefault("balance.action.max_reduction", ap.MaxReduction)
	v.SetDefault("balance.action.min_step", ap.MinStep)
	v.SetDefault("balance.action.jitter_min", ap.JitterMin)
	v.SetDefault("balance.action.jitter_max", ap.JitterMax)

	v.SetDefault("balance.board.width", 9)
	v.SetDefault("balance.board.height", 9)
}
