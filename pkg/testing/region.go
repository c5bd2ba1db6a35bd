package testing

import (
	"github.com/go-drift/inview/pkg/geometry"
)

// FakeRegion is a [visibility.Region] with scripted scrollability.
type FakeRegion struct {
	Vertical   bool
	Horizontal bool
}

// CanScroll reports the scripted scrollability for axis.
func (r *FakeRegion) CanScroll(axis geometry.Axis) bool {
	if axis == geometry.AxisHorizontal {
		return r.Horizontal
	}
	return r.Vertical
}
