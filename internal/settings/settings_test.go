package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestUpdateThenReadPersists(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config", "console.json")
	res, err := Update(UpdateOptions{
		ConfigPath: cfg,
		Settings: Settings{
			BaseURL:        "http://recruit.internal:9090/",
			TimeoutSeconds: 15,
			UploadWorkers:  4,
			LogLevel:       "DEBUG",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://recruit.internal:9090", res.Settings.BaseURL)
	assert.Equal(t, "debug", res.Settings.LogLevel)
	assert.Equal(t, DefaultStateDir, res.Settings.StateDir)

	got, err := Read(cfg)
	require.NoError(t, err)
	assert.Equal(t, res.Settings, got)
	assert.Equal(t, 15*time.Second, got.Timeout())
}

func TestUpdateRejectsInvalidBaseURL(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "console.json")
	_, err := Update(UpdateOptions{ConfigPath: cfg, Settings: Settings{BaseURL: "ftp://example.com"}})
	require.Error(t, err)
	_, statErr := os.Stat(cfg)
	assert.True(t, os.IsNotExist(statErr), "invalid settings must not be written")
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := "console.json"
	_, err := Update(UpdateOptions{ConfigPath: cfg, Settings: Settings{BaseURL: "http://file-host:8080", UploadWorkers: 2}})
	require.NoError(t, err)

	t.Setenv("RECRUIT_BASE_URL", "http://env-host:8081")
	t.Setenv("RECRUIT_TIMEOUT_SECONDS", "30")

	s, err := Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:8081", s.BaseURL)
	assert.Equal(t, 30, s.TimeoutSeconds)
	assert.Equal(t, 2, s.UploadWorkers, "unset env vars keep file values")
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("RECRUIT_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("RECRUIT_LOG_LEVEL") })

	s, err := Load("console.json")
	require.NoError(t, err)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECRUIT_LOG_LEVEL", "chatty")
	_, err := Load("console.json")
	require.Error(t, err)
}
