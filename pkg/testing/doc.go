// Package testing provides fakes for exercising visibility schedulers
// without real viewport geometry.
//
// # Quick Start
//
// Wire a [FakeSensorFactory] into a scheduler, then script ticks through
// the sensor it builds:
//
//	func TestLazyRows(t *testing.T) {
//	    factory := &vistest.FakeSensorFactory{}
//	    scheduler, err := visibility.New(visibility.Config{SensorFactory: factory.Create})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    if err := scheduler.AttachRoot(&vistest.FakeRegion{Vertical: true}); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    log := &vistest.TransitionLog{}
//	    scheduler.Track(row, log.Callback(row), true)
//	    factory.Latest().Tick(visibility.Intersection{Handle: row, Intersecting: true})
//
//	    if log.CountFor(row) != 1 {
//	        t.Error("expected one transition")
//	    }
//	}
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vistest "github.com/go-drift/inview/pkg/testing"
package testing
