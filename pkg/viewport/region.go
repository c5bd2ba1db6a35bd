package viewport

import (
	"github.com/go-drift/inview/pkg/geometry"
)

// Geometry is what a viewport sensor needs from its root: the visible
// window in content coordinates and change notifications. Both
// [ScrollRegion] and [StaticRegion] implement it alongside
// [visibility.Region].
type Geometry interface {
	// CanScroll reports whether the region scrolls along the given axis.
	CanScroll(axis geometry.Axis) bool
	// Window returns the visible slice of content space.
	Window() geometry.Rect
	// AddListener registers a callback for window changes and returns
	// an unsubscribe function.
	AddListener(listener func()) func()
}

// Bounded is implemented by handles a viewport sensor can measure.
// VisibilityBounds must be in the same content coordinate space as the
// root's window.
type Bounded interface {
	VisibilityBounds() geometry.Rect
}

// ScrollRegion is a scrollable root: a viewport sliding over a larger
// content extent along one axis.
//
// ScrollRegion is not safe for concurrent use. Drive it from the
// goroutine that owns the host's event loop.
type ScrollRegion struct {
	axis           geometry.Axis
	viewport       geometry.Size
	content        float64
	offset         float64
	listeners      map[int]func()
	nextListenerID int
}

// NewScrollRegion creates a region with the given viewport size and
// content extent along axis.
func NewScrollRegion(axis geometry.Axis, viewport geometry.Size, contentExtent float64) *ScrollRegion {
	return &ScrollRegion{
		axis:     axis,
		viewport: viewport,
		content:  contentExtent,
	}
}

// Axis returns the region's scroll axis.
func (r *ScrollRegion) Axis() geometry.Axis {
	return r.axis
}

// CanScroll reports whether the region scrolls along the given axis.
// Only the region's own axis scrolls, whatever the current content size.
func (r *ScrollRegion) CanScroll(axis geometry.Axis) bool {
	return axis == r.axis
}

// Offset returns the current scroll offset.
func (r *ScrollRegion) Offset() float64 {
	return r.offset
}

// Viewport returns the viewport size.
func (r *ScrollRegion) Viewport() geometry.Size {
	return r.viewport
}

// ContentExtent returns the content length along the scroll axis.
func (r *ScrollRegion) ContentExtent() float64 {
	return r.content
}

// Window returns the currently visible slice of content, in content
// coordinates.
func (r *ScrollRegion) Window() geometry.Rect {
	base := geometry.RectFromLTWH(0, 0, r.viewport.Width, r.viewport.Height)
	if r.axis == geometry.AxisHorizontal {
		return base.Translate(r.offset, 0)
	}
	return base.Translate(0, r.offset)
}

// JumpTo moves the window to offset, clamped to the scrollable range,
// and notifies listeners if the window moved.
func (r *ScrollRegion) JumpTo(offset float64) {
	clamped := r.clampOffset(offset)
	if clamped == r.offset {
		return
	}
	r.offset = clamped
	r.notifyListeners()
}

// ScrollBy moves the window by delta along the scroll axis.
func (r *ScrollRegion) ScrollBy(delta float64) {
	r.JumpTo(r.offset + delta)
}

// SetViewport resizes the viewport, re-clamps the offset, and notifies
// listeners. Hosts call it when their window resizes.
func (r *ScrollRegion) SetViewport(size geometry.Size) {
	if size == r.viewport {
		return
	}
	r.viewport = size
	r.offset = r.clampOffset(r.offset)
	r.notifyListeners()
}

// SetContentExtent updates the content length along the scroll axis,
// re-clamps the offset, and notifies listeners.
func (r *ScrollRegion) SetContentExtent(extent float64) {
	if extent == r.content {
		return
	}
	r.content = extent
	r.offset = r.clampOffset(r.offset)
	r.notifyListeners()
}

// Pump notifies listeners without moving the window. Hosts call it after
// mounting content so sensors measure the initial state.
func (r *ScrollRegion) Pump() {
	r.notifyListeners()
}

// AddListener registers a callback for window changes.
func (r *ScrollRegion) AddListener(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	if r.listeners == nil {
		r.listeners = make(map[int]func())
	}
	id := r.nextListenerID
	r.nextListenerID++
	r.listeners[id] = listener
	return func() {
		delete(r.listeners, id)
	}
}

// notifyListeners invokes a snapshot of the registered listeners.
// Listeners added during notification run on the next change, not this
// one.
func (r *ScrollRegion) notifyListeners() {
	listeners := make([]func(), 0, len(r.listeners))
	for _, listener := range r.listeners {
		listeners = append(listeners, listener)
	}
	for _, listener := range listeners {
		listener()
	}
}

func (r *ScrollRegion) clampOffset(offset float64) float64 {
	viewportExtent := r.viewport.Height
	if r.axis == geometry.AxisHorizontal {
		viewportExtent = r.viewport.Width
	}
	max := r.content - viewportExtent
	if max < 0 {
		max = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// StaticRegion is a fixed, non-scrolling root covering one rectangle of
// content space. Attaching it to a scheduler with a positive margin is a
// configuration error.
type StaticRegion struct {
	frame          geometry.Rect
	listeners      map[int]func()
	nextListenerID int
}

// NewStaticRegion creates a region covering frame.
func NewStaticRegion(frame geometry.Rect) *StaticRegion {
	return &StaticRegion{frame: frame}
}

// CanScroll always reports false; static regions never scroll.
func (r *StaticRegion) CanScroll(geometry.Axis) bool {
	return false
}

// Window returns the region's frame.
func (r *StaticRegion) Window() geometry.Rect {
	return r.frame
}

// SetFrame replaces the frame and notifies listeners.
func (r *StaticRegion) SetFrame(frame geometry.Rect) {
	if frame == r.frame {
		return
	}
	r.frame = frame
	r.notifyListeners()
}

// Pump notifies listeners without moving the frame.
func (r *StaticRegion) Pump() {
	r.notifyListeners()
}

// AddListener registers a callback for frame changes.
func (r *StaticRegion) AddListener(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	if r.listeners == nil {
		r.listeners = make(map[int]func())
	}
	id := r.nextListenerID
	r.nextListenerID++
	r.listeners[id] = listener
	return func() {
		delete(r.listeners, id)
	}
}

func (r *StaticRegion) notifyListeners() {
	listeners := make([]func(), 0, len(r.listeners))
	for _, listener := range r.listeners {
		listeners = append(listeners, listener)
	}
	for _, listener := range listeners {
		listener()
	}
}
