// Package config loads editor configuration from TOML files and watches
// them for live reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidTabWidth indicates a tab width outside 1..16.
	ErrInvalidTabWidth = errors.New("tab width must be between 1 and 16")
	// ErrInvalidUndoLimit indicates a non-positive undo group limit.
	ErrInvalidUndoLimit = errors.New("undo limit must be positive")
	// ErrInvalidLogLevel indicates an unrecognized log level name.
	ErrInvalidLogLevel = errors.New("log level must be one of debug, info, warn, error")
)

// Config holds the editor settings. Zero values are replaced by defaults
// before validation.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig holds buffer and display settings.
type EditorConfig struct {
	TabWidth  int    `toml:"tab_width"`
	UndoLimit int    `toml:"undo_limit"`
	Theme     string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:  4,
			UndoLimit: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidTabWidth, c.Editor.TabWidth)
	}
	if c.Editor.UndoLimit < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidUndoLimit, c.Editor.UndoLimit)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// DefaultPath returns the default config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "loom", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "loom", "config.toml")
}
