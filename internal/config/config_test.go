package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Meter.Window != nil || cfg.Practice.Lang != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
lang = "de"
words = 40

[meter]
window = 30
tick-ms = 250

[log]
level = "debug"

[relay]
url = "nats://127.0.0.1:4222"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Lang == nil || *cfg.Practice.Lang != "de" {
		t.Fatalf("unexpected lang: %v", cfg.Practice.Lang)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 40 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Meter.Window == nil || *cfg.Meter.Window != 30 {
		t.Fatalf("unexpected window: %v", cfg.Meter.Window)
	}
	if cfg.Meter.TickMs == nil || *cfg.Meter.TickMs != 250 {
		t.Fatalf("unexpected tick: %v", cfg.Meter.TickMs)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
	if cfg.Relay.URL == nil || *cfg.Relay.URL != "nats://127.0.0.1:4222" {
		t.Fatalf("unexpected relay url: %v", cfg.Relay.URL)
	}
	if cfg.Relay.Subject != nil {
		t.Fatalf("expected unset subject")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[meter]\nsize = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "meter.size") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestXDGPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	if got := DefaultConfigPath(); got != filepath.Join(dir, "cfg", "ripah", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultWordListPath("en"); got != filepath.Join(dir, "cfg", "ripah", "wordlists", "en.txt") {
		t.Fatalf("unexpected word list path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "data", "ripah", "ripah.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "state", "ripah", "ripah.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
