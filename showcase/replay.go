package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-drift/inview/pkg/errors"
	"github.com/go-drift/inview/pkg/geometry"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Scripted scroll session on stdout",
		Long: `Run the feed headlessly through the scroll offsets scripted in the
configuration file, printing every visibility transition as it fires.
Useful for demonstrating one-shot retirement and margin look-ahead
without a terminal UI.`,
		Usage: "showcase replay [--config FILE]",
		Run:   runReplay,
	})
}

func runReplay(args []string) error {
	path, rest, err := configPath(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected argument %q", rest[0])
	}
	cfg, err := LoadOptional(path)
	if err != nil {
		return err
	}
	return replay(cfg, os.Stdout)
}

func replay(cfg Config, out io.Writer) error {
	defer errors.Recover("showcase.replay")

	size := geometry.Size{Width: 80, Height: cfg.Replay.ViewportHeight}
	feed, err := NewFeed(cfg, size, func(row *Row, visible bool) {
		state := "hidden"
		if visible {
			state = "visible"
		}
		fmt.Fprintf(out, "  row %03d %s\n", row.Index, state)
	})
	if err != nil {
		return err
	}
	defer feed.Close()

	fmt.Fprintf(out, "feed: %d rows x %d cells, window %.0f cells, margin %q\n",
		cfg.Feed.Rows, cfg.Feed.RowHeight, cfg.Replay.ViewportHeight, cfg.Scheduler.RootMargin)
	if feed.PreloadedCount() > 0 {
		fmt.Fprintf(out, "preloaded %d rows through bootstrap grants\n", feed.PreloadedCount())
	}

	fmt.Fprintln(out, "prime:")
	feed.Prime()

	for _, offset := range cfg.Replay.Offsets {
		fmt.Fprintf(out, "scroll to %.0f:\n", offset)
		feed.ScrollTo(offset)
	}

	fmt.Fprintf(out, "done: loaded %d of %d rows, %d still tracked, %d grants unclaimed\n",
		feed.LoadedCount(), len(feed.Rows()), feed.TrackedCount(), feed.GrantsRemaining())
	return nil
}
