package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags declares the command line options that override config keys
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("navideck", pflag.ContinueOnError)
	fs.String("config", "", "path to config.toml")
	fs.String("catalog", "", "catalog manifest or music directory")
	fs.String("catalog-kind", "", "catalog kind: manifest or dir")
	fs.String("backend", "", "media engine: mpv or beep")
	fs.Bool("headless", false, "play without the terminal UI")
	fs.String("log-level", "", "log level")
	fs.String("log-file", "", "log file path")
	return fs
}

var flagKeys = map[string]string{
	"catalog":      "catalog.path",
	"catalog-kind": "catalog.kind",
	"backend":      "player.backend",
	"headless":     "player.headless",
	"log-level":    "logging.level",
	"log-file":     "logging.file",
}

// Load reads config.toml, applies flags that were set and returns the result
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set config file properties
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath("$HOME/.config/navideck/")
		v.AddConfigPath(".")
	}

	// Set defaults from DefaultConfig
	defaults := DefaultConfig()
	v.SetDefault("catalog.kind", defaults.Catalog.Kind)
	v.SetDefault("catalog.path", defaults.Catalog.Path)
	v.SetDefault("player.backend", defaults.Player.Backend)
	v.SetDefault("player.time_update_ms", defaults.Player.TimeUpdateMS)
	v.SetDefault("player.auto_advance_on_error", defaults.Player.AutoAdvanceOnError)
	v.SetDefault("player.start_looping", defaults.Player.StartLooping)
	v.SetDefault("player.start_muted", defaults.Player.StartMuted)
	v.SetDefault("player.headless", defaults.Player.Headless)
	v.SetDefault("ui.progress_bar_width", defaults.UI.ProgressBarWidth)
	v.SetDefault("ui.show_playlist", defaults.UI.ShowPlaylist)
	v.SetDefault("ui.poster_width", defaults.UI.PosterWidth)
	v.SetDefault("ui.poster_height", defaults.UI.PosterHeight)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.file", defaults.Logging.File)

	// A missing config file is fine; defaults and flags still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
