package visibility_test

import (
	"fmt"
	"testing"

	vistest "github.com/go-drift/inview/pkg/testing"
	"github.com/go-drift/inview/pkg/visibility"
)

// The canonical lazy-feed scenario: 500 one-shot rows behind a vertical
// root with a 1000px vertical margin, first ten rows scrolled in.
func TestLazyFeedScenario(t *testing.T) {
	factory := &vistest.FakeSensorFactory{}
	scheduler, err := visibility.New(visibility.Config{
		RootMargin:    "1000px 0px",
		Thresholds:    []float64{0},
		SensorFactory: factory.Create,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := scheduler.AttachRoot(&vistest.FakeRegion{Vertical: true}); err != nil {
		t.Fatalf("AttachRoot returned error: %v", err)
	}

	const rows = 500
	log := &vistest.TransitionLog{}
	handles := make([]string, rows)
	for i := range handles {
		handles[i] = fmt.Sprintf("row-%03d", i)
		scheduler.Track(handles[i], log.Callback(handles[i]), true)
	}
	if got := scheduler.Tracked(); got != rows {
		t.Fatalf("Tracked() = %d, want %d", got, rows)
	}

	sensor := factory.Latest()
	batch := make([]visibility.Intersection, 10)
	for i := range batch {
		batch[i] = visibility.Intersection{Handle: handles[i], Intersecting: true}
	}
	sensor.Tick(batch...)

	if got := log.Len(); got != 10 {
		t.Errorf("delivered %d callbacks, want 10", got)
	}
	for i := 0; i < 10; i++ {
		if got := log.CountFor(handles[i]); got != 1 {
			t.Errorf("row %d received %d callbacks, want 1", i, got)
		}
	}
	if got := scheduler.Tracked(); got != rows-10 {
		t.Errorf("Tracked() after tick = %d, want %d", got, rows-10)
	}
	for i := 0; i < 10; i++ {
		if sensor.IsObserving(handles[i]) {
			t.Errorf("retired row %d should be unobserved", i)
		}
	}

	// A later tick for an already-retired row is dropped silently.
	sensor.Tick(visibility.Intersection{Handle: handles[0], Intersecting: true})
	if got := log.CountFor(handles[0]); got != 1 {
		t.Errorf("row 0 received %d callbacks after re-tick, want 1", got)
	}
}

// Registrations made before the root exists flush to the sensor in
// arrival order once the root attaches.
func TestPreSensorRegistrationFlush(t *testing.T) {
	factory := &vistest.FakeSensorFactory{}
	scheduler, err := visibility.New(visibility.Config{SensorFactory: factory.Create})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	log := &vistest.TransitionLog{}
	for _, h := range []string{"a", "b", "c"} {
		scheduler.Track(h, log.Callback(h), false)
	}
	if factory.Created() != 0 {
		t.Fatal("no sensor should exist before attach")
	}

	if err := scheduler.AttachRoot(&vistest.FakeRegion{Vertical: true}); err != nil {
		t.Fatalf("AttachRoot returned error: %v", err)
	}
	observed := factory.Latest().Observed()
	want := []string{"a", "b", "c"}
	if len(observed) != len(want) {
		t.Fatalf("observed %d handles, want %d", len(observed), len(want))
	}
	for i, h := range want {
		if observed[i] != visibility.Handle(h) {
			t.Errorf("observed[%d] = %v, want %v", i, observed[i], h)
		}
	}
	if got := scheduler.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0 while a sensor is live", got)
	}
}
