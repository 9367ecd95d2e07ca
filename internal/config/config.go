// Package config loads sweepview settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDir     = "sweepview"
	configFile = "config.toml"
)

// Config is the full application configuration.
type Config struct {
	Columns ColumnsConfig `toml:"columns"`
	Input   InputConfig   `toml:"input"`
	View    ViewConfig    `toml:"view"`
	Watch   WatchConfig   `toml:"watch"`
}

// ColumnsConfig names the header columns of a data file.
type ColumnsConfig struct {
	Phase string `toml:"phase"`
	S1    string `toml:"s1"`
	S2    string `toml:"s2"`
	Value string `toml:"value"`
}

// InputConfig controls how data files are found and decoded.
type InputConfig struct {
	Encoding       string `toml:"encoding"`
	Extension      string `toml:"extension"`
	BoundaryMarker int    `toml:"boundary_marker"`
	AllowPartial   bool   `toml:"allow_partial"`
}

// ViewConfig sizes the viewer window.
type ViewConfig struct {
	Palette      string  `toml:"palette"`
	Width        float32 `toml:"width"`
	Height       float32 `toml:"height"`
	ProfileSize  float32 `toml:"profile_size"`
	SliderHeight float32 `toml:"slider_height"`
}

// WatchConfig controls live reload of open files.
type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Debounce returns the debounce interval.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Columns: ColumnsConfig{
			Phase: "SWL",
			S1:    "s1",
			S2:    "s2",
			Value: "HP334xx [V]",
		},
		Input: InputConfig{
			Encoding:       "utf-8",
			Extension:      ".dat",
			BoundaryMarker: 3,
		},
		View: ViewConfig{
			Palette:      "RdBu",
			Width:        640,
			Height:       640,
			ProfileSize:  110,
			SliderHeight: 28,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// DefaultPath returns ~/.config/sweepview/config.toml (or the platform equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads the config at path over the defaults. A missing file is not an
// error when path is the default location.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	cols := map[string]string{
		"phase": c.Columns.Phase,
		"s1":    c.Columns.S1,
		"s2":    c.Columns.S2,
		"value": c.Columns.Value,
	}
	for key, name := range cols {
		if name == "" {
			return fmt.Errorf("columns.%s must not be empty", key)
		}
	}
	if c.View.ProfileSize <= 0 || c.View.SliderHeight <= 0 {
		return errors.New("view.profile_size and view.slider_height must be positive")
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must not be negative")
	}
	return nil
}
