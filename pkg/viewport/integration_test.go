package viewport_test

import (
	"errors"
	"testing"

	inerrors "github.com/go-drift/inview/pkg/errors"
	"github.com/go-drift/inview/pkg/geometry"
	"github.com/go-drift/inview/pkg/viewport"
	"github.com/go-drift/inview/pkg/visibility"
)

type feedRow struct {
	bounds geometry.Rect
}

func (r *feedRow) VisibilityBounds() geometry.Rect {
	return r.bounds
}

// TestSchedulerWithViewportSensor runs the full pipeline: targets queue
// before a root exists, the attach flushes them into a live viewport
// sensor, and scrolling retires one-shot targets as they come into the
// margin-expanded window.
func TestSchedulerWithViewportSensor(t *testing.T) {
	s, err := visibility.New(visibility.Config{
		RootMargin:    "1000px 0px",
		SensorFactory: viewport.Factory,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	const rowCount = 50
	const rowHeight = 100
	rows := make([]*feedRow, rowCount)
	visibleCounts := make([]int, rowCount)
	hiddenCounts := make([]int, rowCount)
	for i := range rows {
		row := &feedRow{bounds: geometry.RectFromLTWH(0, float64(i*rowHeight), 400, rowHeight)}
		rows[i] = row
		i := i
		s.Track(row, func(visible bool) {
			if visible {
				visibleCounts[i]++
			} else {
				hiddenCounts[i]++
			}
		}, true)
	}
	if got := s.Pending(); got != rowCount {
		t.Fatalf("Pending() before attach = %d, want %d", got, rowCount)
	}

	region := viewport.NewScrollRegion(geometry.AxisVertical, geometry.Size{Width: 400, Height: 600}, rowCount*rowHeight)
	if err := s.AttachRoot(region); err != nil {
		t.Fatalf("AttachRoot() failed: %v", err)
	}
	region.Pump()

	// The 600px window plus 1000px of look-ahead reaches row 15; those
	// rows retire on the spot, the rest report hidden once.
	for i := 0; i < rowCount; i++ {
		wantVisible := 0
		wantHidden := 1
		if i <= 15 {
			wantVisible = 1
			wantHidden = 0
		}
		if visibleCounts[i] != wantVisible || hiddenCounts[i] != wantHidden {
			t.Errorf("row %d counts = %d visible, %d hidden, want %d and %d",
				i, visibleCounts[i], hiddenCounts[i], wantVisible, wantHidden)
		}
	}
	if got := s.Tracked(); got != rowCount-16 {
		t.Fatalf("Tracked() after first pass = %d, want %d", got, rowCount-16)
	}

	// Scrolling down pulls rows 16 through 25 into the expanded window.
	region.JumpTo(1000)

	for i := 16; i <= 25; i++ {
		if visibleCounts[i] != 1 {
			t.Errorf("row %d visible count after scroll = %d, want 1", i, visibleCounts[i])
		}
	}
	for i := 0; i <= 15; i++ {
		if visibleCounts[i] != 1 {
			t.Errorf("retired row %d reported again: visible count %d", i, visibleCounts[i])
		}
	}
	if got := s.Tracked(); got != rowCount-26 {
		t.Errorf("Tracked() after scroll = %d, want %d", got, rowCount-26)
	}

	// Nothing moved: pumping again reports nothing.
	region.Pump()
	for i := range rows {
		if visibleCounts[i]+hiddenCounts[i] > 2 {
			t.Errorf("row %d received extra reports: %d visible, %d hidden",
				i, visibleCounts[i], hiddenCounts[i])
		}
	}
}

func TestAttachStaticRegionRejectsPositiveMargin(t *testing.T) {
	s, err := visibility.New(visibility.Config{
		RootMargin:    "1000px 0px",
		SensorFactory: viewport.Factory,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = s.AttachRoot(viewport.NewStaticRegion(geometry.RectFromLTWH(0, 0, 800, 600)))
	if err == nil {
		t.Fatal("AttachRoot() with a static region and positive margin should fail")
	}
	var inErr *inerrors.InviewError
	if !errors.As(err, &inErr) || inErr.Kind != inerrors.KindConfig {
		t.Errorf("error = %v, want a config error", err)
	}
}

func TestStaticRegionZeroMargin(t *testing.T) {
	s, err := visibility.New(visibility.Config{
		SensorFactory: viewport.Factory,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	region := viewport.NewStaticRegion(geometry.RectFromLTWH(0, 0, 800, 600))
	if err := s.AttachRoot(region); err != nil {
		t.Fatalf("AttachRoot() failed: %v", err)
	}

	inside := &feedRow{bounds: geometry.RectFromLTWH(100, 100, 200, 200)}
	var got []bool
	s.Track(inside, func(visible bool) { got = append(got, visible) }, false)
	region.Pump()

	if len(got) != 1 || !got[0] {
		t.Errorf("reports = %v, want one visible report", got)
	}
}
