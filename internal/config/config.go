// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
)

// envPrefix prefixes every environment override.
const envPrefix = "TRAINERDESK_"

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Sync     SyncConfig     `toml:"sync"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// ScheduleConfig holds working hours and calendar defaults.
type ScheduleConfig struct {
	StartHour      int    `toml:"start_hour"`      // first hour a new session may be proposed at
	EndHour        int    `toml:"end_hour"`        // proposals at or after this hour roll to the next day
	SessionMinutes int    `toml:"session_minutes"` // default length of a new session
	DefaultView    string `toml:"default_view"`    // "month" or "week"
}

// SyncConfig holds fetch settings.
type SyncConfig struct {
	FetchTimeout string `toml:"fetch_timeout"` // Go duration, e.g. "10s"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // empty uses the provider's local default
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// ServerConfig holds dashboard API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			StartHour:      8,
			EndHour:        21,
			SessionMinutes: 60,
			DefaultView:    string(calendar.ModeMonth),
		},
		Sync: SyncConfig{
			FetchTimeout: "10s",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trainerdesk.db"
	}
	return filepath.Join(home, ".local", "share", "trainerdesk", "trainerdesk.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "trainerdesk", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies TRAINERDESK_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"START_HOUR", &cfg.Schedule.StartHour},
		{"END_HOUR", &cfg.Schedule.EndHour},
		{"SESSION_MINUTES", &cfg.Schedule.SessionMinutes},
	}
	for _, o := range ints {
		v := os.Getenv(envPrefix + o.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got %q", envPrefix, o.name, v)
		}
		*o.dst = n
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"DEFAULT_VIEW", &cfg.Schedule.DefaultView},
		{"FETCH_TIMEOUT", &cfg.Sync.FetchTimeout},
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"LLM_MODEL", &cfg.LLM.Model},
		{"LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"DB_PATH", &cfg.Storage.DBPath},
		{"SERVER_ADDR", &cfg.Server.Addr},
		{"UI_THEME", &cfg.UI.Theme},
	}
	for _, o := range strs {
		if v := os.Getenv(envPrefix + o.name); v != "" {
			*o.dst = v
		}
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.WorkingHours().Validate(); err != nil {
		return err
	}
	if c.Schedule.SessionMinutes <= 0 {
		return errors.New("session_minutes must be positive")
	}
	if c.Schedule.SessionMinutes > 24*60 {
		return errors.New("session_minutes must be at most one day")
	}
	if _, err := calendar.ParseMode(c.Schedule.DefaultView); err != nil {
		return fmt.Errorf("default_view: %w", err)
	}
	if _, err := c.FetchTimeout(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}
	return nil
}

// WorkingHours returns the slot proposal policy.
func (c *Config) WorkingHours() calendar.WorkingHours {
	return calendar.WorkingHours{StartHour: c.Schedule.StartHour, EndHour: c.Schedule.EndHour}
}

// SessionLength returns the default length of a new session.
func (c *Config) SessionLength() time.Duration {
	return time.Duration(c.Schedule.SessionMinutes) * time.Minute
}

// ViewMode returns the configured default calendar mode.
func (c *Config) ViewMode() calendar.Mode {
	mode, err := calendar.ParseMode(c.Schedule.DefaultView)
	if err != nil {
		return calendar.ModeMonth
	}
	return mode
}

// FetchTimeout parses the fetch timeout. An empty value disables it.
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Sync.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Sync.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("fetch_timeout must be a duration like \"10s\", got %q", c.Sync.FetchTimeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("fetch_timeout cannot be negative, got %q", c.Sync.FetchTimeout)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
