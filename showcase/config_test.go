package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() failed: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Feed.Rows != defaults.Feed.Rows {
		t.Errorf("feed.rows = %d, want default %d", cfg.Feed.Rows, defaults.Feed.Rows)
	}
	if cfg.Scheduler.RootMargin != defaults.Scheduler.RootMargin {
		t.Errorf("scheduler.rootMargin = %q, want default %q", cfg.Scheduler.RootMargin, defaults.Scheduler.RootMargin)
	}
}

func TestLoadOptionalOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showcase.yaml")
	content := `
feed:
  rows: 12
scheduler:
  rootMargin: "20px 0px"
  thresholds: [0, 0.5]
replay:
  offsets: [5, 10]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := LoadOptional(path)
	if err != nil {
		t.Fatalf("LoadOptional() failed: %v", err)
	}

	if cfg.Feed.Rows != 12 {
		t.Errorf("feed.rows = %d, want 12", cfg.Feed.Rows)
	}
	// Unset keys keep their defaults.
	if cfg.Feed.RowHeight != DefaultConfig().Feed.RowHeight {
		t.Errorf("feed.rowHeight = %d, want default %d", cfg.Feed.RowHeight, DefaultConfig().Feed.RowHeight)
	}
	if cfg.Scheduler.RootMargin != "20px 0px" {
		t.Errorf("scheduler.rootMargin = %q, want %q", cfg.Scheduler.RootMargin, "20px 0px")
	}
	if len(cfg.Scheduler.Thresholds) != 2 || cfg.Scheduler.Thresholds[1] != 0.5 {
		t.Errorf("scheduler.thresholds = %v, want [0 0.5]", cfg.Scheduler.Thresholds)
	}
	if len(cfg.Replay.Offsets) != 2 || cfg.Replay.Offsets[0] != 5 {
		t.Errorf("replay.offsets = %v, want [5 10]", cfg.Replay.Offsets)
	}
}

func TestLoadOptionalInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad syntax", content: "feed: ["},
		{name: "negative rows", content: "feed:\n  rows: -1"},
		{name: "zero row height", content: "feed:\n  rowHeight: 0\n  rows: 10"},
		{name: "zero viewport", content: "replay:\n  viewportHeight: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "showcase.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() failed: %v", err)
			}
			if _, err := LoadOptional(path); err == nil {
				t.Error("LoadOptional() should fail")
			}
		})
	}
}
