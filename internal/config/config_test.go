package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kikitora/spacejourney/internal/game/damage"
	"github.com/kikitora/spacejourney/internal/game/growth"
)

func validConfig(t testing.TB) Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "content", cfg.Content.Dir)
}

func TestDefaultsMatchEngineStock(t *testing.T) {
	b := validConfig(t).Balance
	assert.Equal(t, damage.DefaultParams(), b.DamageParams())
	assert.Equal(t, growth.DefaultExpCurve(), b.ExpCurve())
	assert.Equal(t, growth.DefaultEnemyExpParams(), b.EnemyExp())
	assert.Equal(t, growth.DefaultActionCostParams(), b.ActionCostParams())
	assert.Equal(t, 9, b.Board.Width)
	assert.Equal(t, growth.DefaultEventFactor, b.Growth.EventFactor)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := validConfig(t)
	cfg.Database.User, cfg.Database.Password, cfg.Database.Name = "sj", "pw", "sjdb"
	assert.Equal(t, "postgres://sj:pw@localhost:5432/sjdb?sslmode=disable", cfg.Database.DSN())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
database:
  user: testuser
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 30m
logging:
  level: debug
  format: console
content:
  dir: /srv/content
  script_dir: /srv/scripts
  instruction_limit: 5000
balance:
  damage:
    chip_min: 1
    chip_max: 3
  action:
    max_reduction: 0.5
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/scripts", cfg.Content.ScriptDir)
	assert.Equal(t, 5000, cfg.Content.InstructionLimit)
	assert.Equal(t, 1, cfg.Balance.DamageParams().ChipMin)
	assert.Equal(t, 0.5, cfg.Balance.ActionCostParams().MaxReduction)
	assert.Equal(t, 0.53, cfg.Balance.Damage.ThroughEqual, "unset keys keep defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SJ_CONTENT_DIR", "/env/content")
	t.Setenv("SJ_BALANCE_GROWTH_MAX_LEVEL", "30")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/env/content", cfg.Content.Dir)
	assert.Equal(t, 30, cfg.Balance.ExpCurve().MaxLevel)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig(t)
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig(t)
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateDatabase(t *testing.T) {
	cfg := validConfig(t)
	cfg.Database.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Database.MinConns = 20
	cfg.Database.MaxConns = 10
	assert.Error(t, cfg.Validate())
}

func TestValidateContent(t *testing.T) {
	cfg := validConfig(t)
	cfg.Content.Dir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.Content.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateBalance_InvertedRanges(t *testing.T) {
	mutations := map[string]func(*BalanceConfig){
		"through":   func(b *BalanceConfig) { b.Damage.ThroughMin, b.Damage.ThroughMax = 2, 1 },
		"chip":      func(b *BalanceConfig) { b.Damage.ChipMin, b.Damage.ChipMax = 6, 5 },
		"variance":  func(b *BalanceConfig) { b.Damage.VarianceMin = 1.2 },
		"jitter":    func(b *BalanceConfig) { b.Action.JitterMin = 1.1 },
		"scale":     func(b *BalanceConfig) { b.Damage.DeltaScale = 0 },
		"max_level": func(b *BalanceConfig) { b.Growth.MaxLevel = 1 },
		"reduction": func(b *BalanceConfig) { b.Action.MaxReduction = 1 },
		"board":     func(b *BalanceConfig) { b.Board.Height = 0 },
		"normal":    func(b *BalanceConfig) { b.Exp.NormalMaxLevel = 40 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig(t)
			mutate(&cfg.Balance)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "balance.")
		})
	}
}

func TestValidate_JoinsAllViolations(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logging.Level = "loud"
	cfg.Content.Dir = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "content.dir")
	assert.Contains(t, err.Error(), "; ")
}

func TestPropertyValidPortRange(t *testing.T) {
	base := validConfig(t)
	rapid.Check(t, func(t *rapid.T) {
		cfg := base
		cfg.Database.Port = rapid.IntRange(1, 65535).Draw(t, "port")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid port %d rejected: %v", cfg.Database.Port, err)
		}
	})
}

func TestPropertyOrderedRangesAccepted(t *testing.T) {
	base := validConfig(t)
	rapid.Check(t, func(t *rapid.T) {
		cfg := base
		lo := rapid.Float64Range(0.01, 2).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 3).Draw(t, "hi")
		cfg.Balance.Damage.ThroughMin, cfg.Balance.Damage.ThroughMax = lo, hi
		cfg.Balance.Damage.VarianceMin, cfg.Balance.Damage.VarianceMax = lo, hi
		if err := cfg.Validate(); err != nil {
			t.Fatalf("ordered range [%g,%g] rejected: %v", lo, hi, err)
		}
	})
}
