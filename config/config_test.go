package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperpolymath/betlang/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, 10000, cfg.Samples)
	assert.Equal(t, core.LogLevelInfo, cfg.Level())
}

func TestYAMLThenEnvironment(t *testing.T) {
	path := write(t, "bet.yaml", "seed: 42\nworkers: 4\nsamples: 500\nlog_level: debug\n")
	envFile := write(t, ".env", "BETLANG_BINS=7\nBETLANG_SAMPLES=600\n")
	t.Setenv("BETLANG_SAMPLES", "900")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 7, cfg.Bins, "from the .env file")
	assert.Equal(t, 900, cfg.Samples, "process environment wins over .env")
	assert.Equal(t, core.LogLevelDebug, cfg.Level())

	a, b := cfg.RNG(), cfg.RNG()
	assert.Equal(t, a.Float64(), b.Float64())
}

func TestMissingEnvFileIsFine(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestRejectsBadInput(t *testing.T) {
	_, err := Load(write(t, "typo.yaml", "sample: 5\n"), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(write(t, "neg.yaml", "samples: -1\n"), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(write(t, "lvl.yaml", "log_level: loud\n"), "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("BETLANG_SEED", "minus one")
	_, err = Load("", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyEnvLookup(t *testing.T) {
	cfg := Default()
	env := map[string]string{"BETLANG_RATE_LIMIT": "2.5", "BETLANG_MAX_CONCURRENCY": "3"}
	require.NoError(t, cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLogsDotenv(t *testing.T) {
	logs, cleanup := core.CaptureLog(t, core.LogLevelDebug)
	defer cleanup()

	_, err := Load("", write(t, ".env", "BETLANG_BINS=7\nBETLANG_SAMPLES=600\n"))
	require.NoError(t, err)
	core.AssertLogContains(t, logs.String(), "[INFO]")
	core.AssertLogContains(t, logs.String(), "read 2 settings from")

	missing := filepath.Join(t.TempDir(), "absent.env")
	_, err = Load("", missing)
	require.NoError(t, err)
	core.AssertLogContains(t, logs.String(), "[DEBUG] no dotenv file at "+missing)
}
