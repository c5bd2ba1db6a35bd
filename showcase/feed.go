package main

import (
	"fmt"

	"github.com/go-drift/inview/pkg/geometry"
	"github.com/go-drift/inview/pkg/viewport"
	"github.com/go-drift/inview/pkg/visibility"
)

// transitionCap bounds the in-memory transition log.
const transitionCap = 100

// Row is one feed entry. Rows implement [viewport.Bounded] so the
// sensor can measure them against the scroll window.
type Row struct {
	Index int
	Title string

	bounds  geometry.Rect
	loaded  bool
	visible bool
	reports int
}

// VisibilityBounds returns the row's rectangle in feed coordinates.
func (r *Row) VisibilityBounds() geometry.Rect {
	return r.bounds
}

// Loaded reports whether the row's content has been fetched.
func (r *Row) Loaded() bool {
	return r.loaded
}

// Visible reports the row's last observed visibility.
func (r *Row) Visible() bool {
	return r.visible
}

// Reports returns the number of sensor reports the row has received.
func (r *Row) Reports() int {
	return r.reports
}

// Feed owns the demo pipeline: a scroll region, the scheduler sensing
// it, and the rows tracked for lazy loading. Rows load when they enter
// the margin-expanded window; in one-shot mode they retire right after.
type Feed struct {
	cfg       Config
	scheduler *visibility.Scheduler
	scope     *visibility.Scope
	region    *viewport.ScrollRegion
	rows      []*Row

	loaded      int
	preloaded   int
	transitions []string
	// onTransition, when set, runs after every visibility report.
	onTransition func(row *Row, visible bool)
}

// NewFeed builds the feed and attaches the scheduler to its scroll
// region. No measurements happen yet: call [Feed.Prime] once the caller
// is ready to receive transitions.
func NewFeed(cfg Config, size geometry.Size, onTransition func(*Row, bool)) (*Feed, error) {
	scheduler, err := visibility.New(visibility.Config{
		RootMargin:       cfg.Scheduler.RootMargin,
		Thresholds:       cfg.Scheduler.Thresholds,
		InitiallyVisible: cfg.Scheduler.InitiallyVisible,
		SensorFactory:    viewport.Factory,
	})
	if err != nil {
		return nil, err
	}

	f := &Feed{
		cfg:          cfg,
		scheduler:    scheduler,
		scope:        visibility.NewScope(),
		onTransition: onTransition,
	}

	rowHeight := float64(cfg.Feed.RowHeight)
	f.region = viewport.NewScrollRegion(geometry.AxisVertical, size, float64(cfg.Feed.Rows)*rowHeight)

	once := !cfg.Scheduler.Continuous
	for i := 0; i < cfg.Feed.Rows; i++ {
		row := &Row{
			Index:  i,
			Title:  fmt.Sprintf("Story %03d", i),
			bounds: geometry.RectFromLTWH(0, float64(i)*rowHeight, size.Width, rowHeight),
		}
		f.rows = append(f.rows, row)

		preloaded, attach := visibility.UseVisibility(f.scope, scheduler, f.rowCallback(row), once)
		if preloaded {
			f.markLoaded(row)
			row.visible = true
			f.preloaded++
		}
		attach(row)
	}

	if err := scheduler.AttachRoot(f.region); err != nil {
		f.scope.Dispose()
		return nil, err
	}
	return f, nil
}

// rowCallback builds the visibility callback for one row.
func (f *Feed) rowCallback(row *Row) visibility.Callback {
	return func(visible bool) {
		row.reports++
		row.visible = visible
		if visible {
			f.markLoaded(row)
		}
		f.logTransition(row, visible)
		if f.onTransition != nil {
			f.onTransition(row, visible)
		}
	}
}

func (f *Feed) markLoaded(row *Row) {
	if row.loaded {
		return
	}
	row.loaded = true
	f.loaded++
}

func (f *Feed) logTransition(row *Row, visible bool) {
	state := "hidden"
	if visible {
		state = "visible"
	}
	entry := fmt.Sprintf("row %03d %s at offset %.0f", row.Index, state, f.region.Offset())
	f.transitions = append(f.transitions, entry)
	if len(f.transitions) > transitionCap {
		f.transitions = f.transitions[len(f.transitions)-transitionCap:]
	}
}

// Prime triggers the initial measurement pass.
func (f *Feed) Prime() {
	f.region.Pump()
}

// ScrollTo jumps the window to offset.
func (f *Feed) ScrollTo(offset float64) {
	f.region.JumpTo(offset)
}

// ScrollBy moves the window by delta cells.
func (f *Feed) ScrollBy(delta float64) {
	f.region.ScrollBy(delta)
}

// Resize adjusts the window and row widths to a new terminal size.
func (f *Feed) Resize(size geometry.Size) {
	for _, row := range f.rows {
		row.bounds.Right = row.bounds.Left + size.Width
	}
	f.region.SetViewport(size)
}

// Reconfigure swaps the scheduler's margin and thresholds, then
// re-measures every live row against the rebuilt sensor.
func (f *Feed) Reconfigure(rootMargin string, thresholds []float64) error {
	if err := f.scheduler.Reconfigure(rootMargin, thresholds); err != nil {
		return err
	}
	f.region.Pump()
	return nil
}

// MaxOffset returns the largest reachable scroll offset.
func (f *Feed) MaxOffset() float64 {
	max := f.region.ContentExtent() - f.region.Viewport().Height
	if max < 0 {
		return 0
	}
	return max
}

// Rows returns the feed's rows in order.
func (f *Feed) Rows() []*Row {
	return f.rows
}

// Region returns the scroll region driving the feed.
func (f *Feed) Region() *viewport.ScrollRegion {
	return f.region
}

// LoadedCount reports how many rows have loaded so far.
func (f *Feed) LoadedCount() int {
	return f.loaded
}

// PreloadedCount reports how many rows loaded through bootstrap grants.
func (f *Feed) PreloadedCount() int {
	return f.preloaded
}

// TrackedCount reports how many rows the scheduler still observes.
func (f *Feed) TrackedCount() int {
	return f.scheduler.Tracked()
}

// GrantsRemaining reports the unclaimed bootstrap grants.
func (f *Feed) GrantsRemaining() int {
	return f.scheduler.GrantsRemaining()
}

// RecentTransitions returns up to n of the latest transition log lines,
// oldest first.
func (f *Feed) RecentTransitions(n int) []string {
	if n <= 0 || len(f.transitions) == 0 {
		return nil
	}
	if n > len(f.transitions) {
		n = len(f.transitions)
	}
	return f.transitions[len(f.transitions)-n:]
}

// Close releases every row registration and detaches the scheduler.
func (f *Feed) Close() {
	f.scope.Dispose()
	f.scheduler.DetachRoot()
}
