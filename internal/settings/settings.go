package settings

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"recruit-console/internal/runstore"
)

// Settings controls how the console reaches the backend.
type Settings struct {
	BaseURL        string `json:"base_url" env:"RECRUIT_BASE_URL"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" env:"RECRUIT_TIMEOUT_SECONDS"`
	UploadWorkers  int    `json:"upload_workers,omitempty" env:"RECRUIT_UPLOAD_WORKERS"`
	LogLevel       string `json:"log_level,omitempty" env:"RECRUIT_LOG_LEVEL"`
	StateDir       string `json:"state_dir,omitempty" env:"RECRUIT_STATE_DIR"`
}

type settingsFile struct {
	SchemaVersion int      `json:"schema_version"`
	UpdatedAt     string   `json:"updated_at"`
	Settings      Settings `json:"settings"`
}

type UpdateOptions struct {
	ConfigPath string
	Settings   Settings
}

type UpdateResult struct {
	ConfigPath string   `json:"config_path"`
	Settings   Settings `json:"settings"`
}

func Defaults() Settings {
	return Settings{
		BaseURL:        DefaultBaseURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		UploadWorkers:  DefaultUploadWorkers,
		LogLevel:       DefaultLogLevel,
		StateDir:       DefaultStateDir,
	}
}

// Timeout is the per-request transport timeout; zero leaves the transport default.
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func normalizeConfigPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultConfigPath
	}
	return p
}

func normalize(raw Settings) Settings {
	norm := raw
	norm.BaseURL = strings.TrimRight(strings.TrimSpace(norm.BaseURL), "/")
	if norm.BaseURL == "" {
		norm.BaseURL = DefaultBaseURL
	}
	if norm.TimeoutSeconds < 0 {
		norm.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if norm.UploadWorkers < 0 {
		norm.UploadWorkers = DefaultUploadWorkers
	}
	norm.LogLevel = strings.ToLower(strings.TrimSpace(norm.LogLevel))
	if norm.LogLevel == "" {
		norm.LogLevel = DefaultLogLevel
	}
	norm.StateDir = strings.TrimSpace(norm.StateDir)
	if norm.StateDir == "" {
		norm.StateDir = DefaultStateDir
	}
	return norm
}

func Validate(s Settings) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", s.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https, got %q", s.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url must include a host, got %q", s.BaseURL)
	}
	if s.TimeoutSeconds < 0 {
		return errors.New("timeout_seconds must be >= 0")
	}
	if s.UploadWorkers < 0 {
		return errors.New("upload_workers must be >= 0")
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", s.LogLevel)
	}
	return nil
}

// LoadEnvFiles loads the .env files that exist; missing files are skipped.
func LoadEnvFiles(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func readFile(path string) (Settings, error) {
	var f settingsFile
	if err := runstore.ReadJSON(path, &f); err != nil {
		return Settings{}, err
	}
	return f.Settings, nil
}

// Read returns the persisted settings without environment overrides.
func Read(configPath string) (Settings, error) {
	path := normalizeConfigPath(configPath)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, fmt.Errorf("stat settings %s: %w", path, err)
	}
	s, err := readFile(path)
	if err != nil {
		return Settings{}, err
	}
	return normalize(s), nil
}

// Effective returns file values with RECRUIT_* environment overrides
// (including .env files) applied, normalized but not validated.
func Effective(configPath string) (Settings, error) {
	s, err := Read(configPath)
	if err != nil {
		return Settings{}, err
	}
	if _, err := LoadEnvFiles(EnvFiles...); err != nil {
		return Settings{}, fmt.Errorf("load env files: %w", err)
	}
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	return normalize(s), nil
}

// Load is Effective followed by Validate.
func Load(configPath string) (Settings, error) {
	s, err := Effective(configPath)
	if err != nil {
		return Settings{}, err
	}
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func Update(opts UpdateOptions) (UpdateResult, error) {
	path := normalizeConfigPath(opts.ConfigPath)
	s := normalize(opts.Settings)
	if err := Validate(s); err != nil {
		return UpdateResult{}, err
	}
	f := settingsFile{
		SchemaVersion: schemaVersion,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Settings:      s,
	}
	if err := runstore.WriteJSON(path, f); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{ConfigPath: path, Settings: s}, nil
}
