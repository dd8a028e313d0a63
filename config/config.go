package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Config represents the complete application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig says where the track list comes from
type CatalogConfig struct {
	Kind string `mapstructure:"kind"` // manifest or dir
	Path string `mapstructure:"path"`
}

// PlayerConfig contains media engine settings
type PlayerConfig struct {
	Backend            string `mapstructure:"backend"`        // mpv or beep
	TimeUpdateMS       int    `mapstructure:"time_update_ms"` // position report cadence
	AutoAdvanceOnError bool   `mapstructure:"auto_advance_on_error"`
	StartLooping       bool   `mapstructure:"start_looping"`
	StartMuted         bool   `mapstructure:"start_muted"`
	Headless           bool   `mapstructure:"headless"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	ProgressBarWidth int  `mapstructure:"progress_bar_width"`
	ShowPlaylist     bool `mapstructure:"show_playlist"`
	PosterWidth      int  `mapstructure:"poster_width"`
	PosterHeight     int  `mapstructure:"poster_height"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

const (
	CatalogManifest = "manifest"
	CatalogDir      = "dir"

	BackendMPV  = "mpv"
	BackendBeep = "beep"
)

// GetTimeUpdateInterval returns the position report cadence as a time.Duration
func (p *PlayerConfig) GetTimeUpdateInterval() time.Duration {
	return time.Duration(p.TimeUpdateMS) * time.Millisecond
}

// Validate checks enum and range settings
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path cannot be empty")
	}
	switch c.Catalog.Kind {
	case CatalogManifest, CatalogDir:
	default:
		return fmt.Errorf("invalid catalog kind: %s (must be %s or %s)", c.Catalog.Kind, CatalogManifest, CatalogDir)
	}

	switch c.Player.Backend {
	case BackendMPV, BackendBeep:
	default:
		return fmt.Errorf("invalid player backend: %s (must be %s or %s)", c.Player.Backend, BackendMPV, BackendBeep)
	}
	if c.Player.TimeUpdateMS < 50 {
		return fmt.Errorf("player time_update_ms must be at least 50")
	}

	if c.UI.ProgressBarWidth < 10 {
		return fmt.Errorf("ui progress_bar_width must be at least 10")
	}
	if c.UI.PosterWidth < 1 || c.UI.PosterHeight < 1 {
		return fmt.Errorf("ui poster size must be positive")
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Kind: CatalogManifest,
			Path: "catalog.toml",
		},
		Player: PlayerConfig{
			Backend:            BackendMPV,
			TimeUpdateMS:       250,
			AutoAdvanceOnError: true,
		},
		UI: UIConfig{
			ProgressBarWidth: 30,
			ShowPlaylist:     false,
			PosterWidth:      25,
			PosterHeight:     12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(os.TempDir(), "navideck.log"),
		},
	}
}

// NewLogger builds the application logger. An empty File logs to fallback.
// The returned closer releases the log file.
func (l LoggingConfig) NewLogger(fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	if l.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if l.File == "" {
		logger.SetOutput(fallback)
		return logger, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}
