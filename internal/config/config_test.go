package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.HorizonDays != 150 {
		t.Errorf("HorizonDays = %d, want 150", cfg.General.HorizonDays)
	}
	if cfg.Daemon.Schedule != "@every 15m" {
		t.Errorf("Schedule = %q, want @every 15m", cfg.Daemon.Schedule)
	}
	if Exists() {
		t.Error("Exists() = true with no file written")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.HorizonDays = 90
	cfg.General.DefaultScenario = "Move to Denver"
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Alerts.LowBalanceThreshold = 250

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.HorizonDays != 90 {
		t.Errorf("HorizonDays = %d, want 90", got.General.HorizonDays)
	}
	if got.General.DefaultScenario != "Move to Denver" {
		t.Errorf("DefaultScenario = %q", got.General.DefaultScenario)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q, want tokyo-night", got.Appearance.Theme)
	}
	if got.Alerts.LowBalanceThreshold != 250 {
		t.Errorf("LowBalanceThreshold = %v, want 250", got.Alerts.LowBalanceThreshold)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.HorizonDays = 60
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RUNWAY_HORIZON_DAYS", "200")
	t.Setenv("RUNWAY_SMTP_PASSWORD", "hunter2")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.HorizonDays != 200 {
		t.Errorf("HorizonDays = %d, want 200 from env", got.General.HorizonDays)
	}
	if got.Alerts.SMTPPassword != "hunter2" {
		t.Errorf("SMTPPassword = %q, want hunter2", got.Alerts.SMTPPassword)
	}
}

func TestLoadFile_KeepsEnvOutOfSavedConfig(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.General.HorizonDays = 60
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RUNWAY_HORIZON_DAYS", "7")
	t.Setenv("RUNWAY_SMTP_PASSWORD", "hunter2")

	saved, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if saved.General.HorizonDays != 60 || saved.Alerts.SMTPPassword != "" {
		t.Fatalf("LoadFile applied env: horizon=%d password=%q", saved.General.HorizonDays, saved.Alerts.SMTPPassword)
	}

	saved.General.DefaultScenario = "abc"
	if err := Save(saved); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Contains(text, "hunter2") {
		t.Errorf("config file contains the env SMTP password:\n%s", text)
	}
	if !strings.Contains(text, "horizon_days = 60") {
		t.Errorf("config file lost horizon_days = 60:\n%s", text)
	}
	if !strings.Contains(text, `default_scenario = "abc"`) {
		t.Errorf("config file missing default_scenario:\n%s", text)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.HorizonDays != 7 || got.Alerts.SMTPPassword != "hunter2" {
		t.Errorf("Load lost env overrides: horizon=%d password=%q", got.General.HorizonDays, got.Alerts.SMTPPassword)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	isolate(t)

	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	bad := "[general]\nhorizon_days = 0\n"
	if err := os.WriteFile(ConfigPath(), []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load accepted horizon_days = 0")
	}

	if err := os.WriteFile(ConfigPath(), []byte("not = [valid"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestDBPath(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	if got, want := cfg.DBPath(), filepath.Join(dir, "data", "runway", "runway.db"); got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}

	cfg.General.DBPath = "/tmp/elsewhere.db"
	if got := cfg.DBPath(); got != "/tmp/elsewhere.db" {
		t.Errorf("DBPath() = %q, want override", got)
	}
}

func TestAlertsConfig_EmailEnabled(t *testing.T) {
	a := AlertsConfig{SMTPHost: "smtp.example.com", EmailTo: "me@example.com"}
	if a.EmailEnabled() {
		t.Error("EmailEnabled() = true without a from address")
	}
	a.EmailFrom = "runway@example.com"
	if !a.EmailEnabled() {
		t.Error("EmailEnabled() = false with host, to and from set")
	}
}
