package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "API_KEY", "AUDIT_PROVIDER", "AUDIT_STORAGE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
analyzer:
  provider: OpenAI
  stepDelay: 800ms
  openai:
    model: gpt-4.1-mini
history:
  limit: 10
storage:
  driver: postgres
  database:
    host: db
    port: 5432
    user: audit
    password: secret
    name: audit
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Analyzer.Provider)
	assert.Equal(t, 800*time.Millisecond, cfg.Analyzer.StepDelay)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.Equal(t, "host=db port=5432 user=audit password=secret dbname=audit sslmode=disable", cfg.PostgresDSN())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Analyzer.Provider)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.SQLite.Path)
	assert.Equal(t, 1500*time.Millisecond, cfg.Gate.ConsentDelay)
	assert.Equal(t, "https://www.instagram.com/yaz.salaq", cfg.Gate.FollowURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY wins over API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("API_KEY", "fallback")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "g-key", cfg.Analyzer.Gemini.APIKey)
	})

	t.Run("API_KEY used when gemini key unset", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "fallback")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "fallback", cfg.Analyzer.Gemini.APIKey)
	})

	t.Run("provider and storage", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUDIT_PROVIDER", "gemini")
		t.Setenv("AUDIT_STORAGE", "memory")
		t.Setenv("OPENAI_API_KEY", "oa-key")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "gemini", cfg.Analyzer.Provider)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, "oa-key", cfg.Analyzer.OpenAI.APIKey)
	})
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "analyzer:\n  provider: claude\n"))
	assert.ErrorContains(t, err, "unsupported analyzer provider")

	_, err = Load(writeConfig(t, "storage:\n  driver: redis\n"))
	assert.ErrorContains(t, err, "unsupported storage driver")

	_, err = Load(writeConfig(t, "history:\n  limit: 1000\n"))
	assert.ErrorContains(t, err, "history.limit")
}
