package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the optional showcase.yaml configuration.
type Config struct {
	Feed      FeedConfig      `yaml:"feed"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Replay    ReplayConfig    `yaml:"replay"`
}

// FeedConfig shapes the demo feed.
type FeedConfig struct {
	// Rows is the number of rows in the feed.
	Rows int `yaml:"rows,omitempty"`
	// RowHeight is the height of one row in cells.
	RowHeight int `yaml:"rowHeight,omitempty"`
}

// SchedulerConfig carries the visibility scheduler settings.
type SchedulerConfig struct {
	RootMargin       string    `yaml:"rootMargin,omitempty"`
	Thresholds       []float64 `yaml:"thresholds,omitempty"`
	InitiallyVisible int       `yaml:"initiallyVisible,omitempty"`
	// Continuous keeps rows tracked after they load; the default
	// one-shot mode retires a row on its first visible report.
	Continuous bool `yaml:"continuous,omitempty"`
}

// ReplayConfig scripts the headless replay session.
type ReplayConfig struct {
	// ViewportHeight is the replay window height in cells.
	ViewportHeight float64 `yaml:"viewportHeight,omitempty"`
	// Offsets are the scroll positions visited, in order.
	Offsets []float64 `yaml:"offsets,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Feed: FeedConfig{
			Rows:      120,
			RowHeight: 3,
		},
		Scheduler: SchedulerConfig{
			RootMargin:       "6px 0px",
			InitiallyVisible: 4,
		},
		Replay: ReplayConfig{
			ViewportHeight: 24,
			Offsets:        []float64{30, 90, 240, 0},
		},
	}
}

// LoadOptional reads the configuration file if present, falling back to
// defaults. An empty path means showcase.yaml in the working directory.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		path = "showcase.yaml"
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Feed.Rows <= 0 {
		return cfg, fmt.Errorf("feed.rows must be positive (got %d)", cfg.Feed.Rows)
	}
	if cfg.Feed.RowHeight <= 0 {
		return cfg, fmt.Errorf("feed.rowHeight must be positive (got %d)", cfg.Feed.RowHeight)
	}
	if cfg.Replay.ViewportHeight <= 0 {
		return cfg, fmt.Errorf("replay.viewportHeight must be positive (got %v)", cfg.Replay.ViewportHeight)
	}
	return cfg, nil
}
