package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }, "catalog path"},
		{"unknown catalog kind", func(c *Config) { c.Catalog.Kind = "subsonic" }, "catalog kind"},
		{"unknown backend", func(c *Config) { c.Player.Backend = "vlc" }, "backend"},
		{"fast ticker", func(c *Config) { c.Player.TimeUpdateMS = 10 }, "time_update_ms"},
		{"narrow progress bar", func(c *Config) { c.UI.ProgressBarWidth = 3 }, "progress_bar_width"},
		{"zero poster", func(c *Config) { c.UI.PosterHeight = 0 }, "poster size"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[catalog]
kind = "dir"
path = "/music"

[player]
backend = "beep"
time_update_ms = 500
start_muted = true

[ui]
show_playlist = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := Flags()
	if err := fs.Parse([]string{"--config", path, "--backend", "mpv", "--log-level", "debug"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Catalog.Kind != CatalogDir || cfg.Catalog.Path != "/music" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Player.Backend != BackendMPV {
		t.Errorf("backend = %q, want flag override %q", cfg.Player.Backend, BackendMPV)
	}
	if cfg.Player.TimeUpdateMS != 500 || !cfg.Player.StartMuted {
		t.Errorf("player = %+v", cfg.Player)
	}
	if !cfg.Player.AutoAdvanceOnError {
		t.Error("auto_advance_on_error should keep its default")
	}
	if !cfg.UI.ShowPlaylist || cfg.UI.ProgressBarWidth != 30 {
		t.Errorf("ui = %+v", cfg.UI)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[player]\nbackend = \"winamp\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := Flags()
	if err := fs.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fs); err == nil {
		t.Fatal("Load accepted an unknown backend")
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := LoggingConfig{Level: "info", Format: "json", File: path}.NewLogger(os.Stderr)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.WithField("track", 3).Info("loaded")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"track":3`) {
		t.Errorf("log file = %q, want json track field", data)
	}
}
