// Package geometry provides the rectangle and axis math used to decide
// whether a tracked item overlaps a viewport.
package geometry

import (
	"fmt"
	"math"
)

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Area returns the area of the rectangle, or 0 for an empty rectangle.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Intersect returns the intersection of two rectangles.
// Returns empty rect if they don't overlap.
func (r Rect) Intersect(other Rect) Rect {
	left := math.Max(r.Left, other.Left)
	top := math.Max(r.Top, other.Top)
	right := math.Min(r.Right, other.Right)
	bottom := math.Min(r.Bottom, other.Bottom)
	if left >= right || top >= bottom {
		return Rect{} // Empty
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Contains reports whether other lies entirely within r.
// Degenerate rectangles (zero width or height) count as contained when
// their edges fall inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Expand returns a new rect grown outward by the given insets.
// Negative inset components shrink the corresponding edge.
func (r Rect) Expand(i Insets) Rect {
	return Rect{
		Left:   r.Left - i.Left,
		Top:    r.Top - i.Top,
		Right:  r.Right + i.Right,
		Bottom: r.Bottom + i.Bottom,
	}
}

// Insets represents per-edge distances, used to expand or shrink a
// viewport rectangle before intersection testing.
type Insets struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformInsets creates insets with the same value on every edge.
func UniformInsets(value float64) Insets {
	return Insets{Top: value, Right: value, Bottom: value, Left: value}
}

// IsZero returns true if every edge inset is zero.
func (i Insets) IsZero() bool {
	return i.Top == 0 && i.Right == 0 && i.Bottom == 0 && i.Left == 0
}

// Axis represents a scroll direction.
// AxisVertical is the zero value, making it the default for scrollable regions.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

// String returns a human-readable representation of the axis.
func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}
