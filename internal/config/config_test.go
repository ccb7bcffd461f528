package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.Server.Addr)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 5, cfg.Reminders.LeadMinutes)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "primary", cfg.Google.CalendarId)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := `
gemini:
  model: gemini-test
  maxretries: 4
db:
  host: db.internal
reminders:
  leadminutes: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("GEOLEVELUP_GEMINI_APIKEY", "secret-key")
	t.Setenv("GEOLEVELUP_DB_PORT", "6543")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, 4, cfg.Gemini.MaxRetries)
	assert.Equal(t, "secret-key", cfg.Gemini.ApiKey)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Reminders.LeadMinutes)
}
