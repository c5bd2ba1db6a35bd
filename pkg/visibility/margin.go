package visibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/inview/pkg/errors"
	"github.com/go-drift/inview/pkg/geometry"
)

// Unit is the measurement unit of one margin component.
type Unit int

const (
	// UnitPx is an absolute pixel length.
	UnitPx Unit = iota
	// UnitPercent is a fraction of the matching window dimension.
	UnitPercent
)

// Length is one margin component.
type Length struct {
	Value float64
	Unit  Unit
}

// Margin expands a root's window before intersection testing. Positive
// components grow the window outward, negative components shrink it.
type Margin struct {
	Top    Length
	Right  Length
	Bottom Length
	Left   Length
}

// ParseMargin parses CSS margin shorthand: one to four components, each
// a pixel ("100px") or percent ("25%") length. A bare "0" needs no unit.
// One component applies to all edges; two are vertical then horizontal;
// three are top, horizontal, bottom; four are top, right, bottom, left.
// The empty string is a zero margin.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, &errors.ParseError{Input: s, Reason: "expected 1 to 4 components"}
	}
	lengths := make([]Length, len(fields))
	for i, field := range fields {
		length, reason := parseComponent(field)
		if reason != "" {
			return Margin{}, &errors.ParseError{Input: s, Reason: reason}
		}
		lengths[i] = length
	}
	switch len(lengths) {
	case 1:
		return Margin{Top: lengths[0], Right: lengths[0], Bottom: lengths[0], Left: lengths[0]}, nil
	case 2:
		return Margin{Top: lengths[0], Right: lengths[1], Bottom: lengths[0], Left: lengths[1]}, nil
	case 3:
		return Margin{Top: lengths[0], Right: lengths[1], Bottom: lengths[2], Left: lengths[1]}, nil
	default:
		return Margin{Top: lengths[0], Right: lengths[1], Bottom: lengths[2], Left: lengths[3]}, nil
	}
}

// parseComponent parses one length. It returns a non-empty reason on
// failure.
func parseComponent(raw string) (Length, string) {
	unit := UnitPx
	num := raw
	switch {
	case strings.HasSuffix(raw, "px"):
		num = strings.TrimSuffix(raw, "px")
	case strings.HasSuffix(raw, "%"):
		unit = UnitPercent
		num = strings.TrimSuffix(raw, "%")
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Sprintf("component %q is not a length", raw)
	}
	if num == raw && value != 0 {
		return Length{}, fmt.Sprintf("component %q is missing a px or %% unit", raw)
	}
	return Length{Value: value, Unit: unit}, ""
}

// Resolve converts the margin to pixel insets against the given window
// size. Percent components resolve against the window height for top
// and bottom, and against the window width for left and right.
func (m Margin) Resolve(window geometry.Size) geometry.Insets {
	return geometry.Insets{
		Top:    m.Top.resolve(window.Height),
		Right:  m.Right.resolve(window.Width),
		Bottom: m.Bottom.resolve(window.Height),
		Left:   m.Left.resolve(window.Width),
	}
}

func (l Length) resolve(extent float64) float64 {
	if l.Unit == UnitPercent {
		return l.Value / 100 * extent
	}
	return l.Value
}

// HasPositive reports whether any component along the given axis grows
// the window outward. A positive margin along an axis requires a root
// that can scroll that axis.
func (m Margin) HasPositive(axis geometry.Axis) bool {
	if axis == geometry.AxisHorizontal {
		return m.Left.Value > 0 || m.Right.Value > 0
	}
	return m.Top.Value > 0 || m.Bottom.Value > 0
}
