// Package config loads and saves the runway configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds all runway configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Alerts     AlertsConfig     `toml:"alerts"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds projection defaults.
type GeneralConfig struct {
	HorizonDays     int    `toml:"horizon_days" env:"RUNWAY_HORIZON_DAYS"`
	DefaultScenario string `toml:"default_scenario,omitempty" env:"RUNWAY_SCENARIO"`
	DBPath          string `toml:"db_path,omitempty" env:"RUNWAY_DB_PATH"`
}

// AppearanceConfig holds theme and number formatting settings.
type AppearanceConfig struct {
	Theme  string `toml:"theme" env:"RUNWAY_THEME"`
	Locale string `toml:"locale" env:"RUNWAY_LOCALE"`
}

// AlertsConfig controls low-balance alerting in the daemon.
type AlertsConfig struct {
	LowBalanceThreshold float64 `toml:"low_balance_threshold" env:"RUNWAY_LOW_BALANCE_THRESHOLD"`
	EmailTo             string  `toml:"email_to,omitempty" env:"RUNWAY_EMAIL_TO"`
	EmailFrom           string  `toml:"email_from,omitempty" env:"RUNWAY_EMAIL_FROM"`
	SMTPHost            string  `toml:"smtp_host,omitempty" env:"RUNWAY_SMTP_HOST"`
	SMTPPort            int     `toml:"smtp_port,omitempty" env:"RUNWAY_SMTP_PORT"`
	SMTPUsername        string  `toml:"smtp_username,omitempty" env:"RUNWAY_SMTP_USERNAME"`
	SMTPPassword        string  `toml:"smtp_password,omitempty" env:"RUNWAY_SMTP_PASSWORD"`
}

// EmailEnabled reports whether enough SMTP settings are present to send mail.
func (a AlertsConfig) EmailEnabled() bool {
	return a.SMTPHost != "" && a.EmailTo != "" && a.EmailFrom != ""
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr" env:"RUNWAY_DAEMON_ADDR"`
	Schedule     string `toml:"schedule" env:"RUNWAY_DAEMON_SCHEDULE"`
	EventsBuffer int    `toml:"events_buffer" env:"RUNWAY_DAEMON_EVENTS_BUFFER"`
}

// LoggingConfig holds logrus settings.
type LoggingConfig struct {
	Level  string `toml:"level" env:"RUNWAY_LOG_LEVEL"`
	Format string `toml:"format" env:"RUNWAY_LOG_FORMAT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HorizonDays: 150,
		},
		Appearance: AppearanceConfig{
			Theme:  "flexoki-dark",
			Locale: "en-US",
		},
		Alerts: AlertsConfig{
			SMTPPort: 587,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			Schedule:     "@every 15m",
			EventsBuffer: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "runway")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database and
// daemon runtime files.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "runway")
}

// DBPath returns the configured database path, or the default under DataDir.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return expandHome(c.General.DBPath)
	}
	return filepath.Join(DataDir(), "runway.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment variables override file values.
func Load() (Config, error) {
	cfg, err := readFile()
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFile reads the config file without environment overrides. Use it for
// read-modify-Save so env values never end up on disk.
func LoadFile() (Config, error) {
	cfg, err := readFile()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func readFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	if c.General.HorizonDays < 1 {
		return fmt.Errorf("general.horizon_days must be at least 1, got %d", c.General.HorizonDays)
	}
	if c.Daemon.EventsBuffer < 1 {
		return fmt.Errorf("daemon.events_buffer must be at least 1, got %d", c.Daemon.EventsBuffer)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
