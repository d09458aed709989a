package layout

import (
	"encoding/json"
	"fmt"
	"math"
)

// Axis is a layout direction.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// String returns a human-readable representation of the axis.
func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", a)
	}
}

// Cross returns the perpendicular axis.
func (a Axis) Cross() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Size is a width/height pair in logical units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Along returns the extent on axis a.
func (s Size) Along(a Axis) float64 {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// sizeOn builds a size from main and cross extents relative to axis.
func sizeOn(axis Axis, main, cross float64) Size {
	if axis == Horizontal {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

// sanitize replaces non-finite and negative extents with zero so that a
// misbehaving measurement cannot poison the rest of the pass.
func (s Size) sanitize() Size {
	return Size{Width: finiteNonNegative(s.Width), Height: finiteNonNegative(s.Height)}
}

func finiteNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Point is a position in logical units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// RectOf builds a rect from its components.
func RectOf(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// String formats the rect as "(x,y wxh)".
func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}

// offsetOn returns a point from main/cross offsets relative to axis.
func offsetOn(axis Axis, main, cross float64) Point {
	if axis == Horizontal {
		return Point{X: main, Y: cross}
	}
	return Point{X: cross, Y: main}
}

// Extent is one axis of a proposal: either a finite length or unbounded.
// The zero value is Unbounded.
type Extent struct {
	value   float64
	bounded bool
}

// Unbounded means "report your ideal size on this axis".
var Unbounded = Extent{}

// Fixed returns a bounded extent. Negative and NaN lengths become zero;
// infinite lengths become Unbounded.
func Fixed(v float64) Extent {
	if math.IsInf(v, 1) {
		return Unbounded
	}
	return Extent{value: finiteNonNegative(v), bounded: true}
}

// Value returns the length and whether the extent is bounded.
func (e Extent) Value() (float64, bool) {
	return e.value, e.bounded
}

// Bounded reports whether the extent has a finite length.
func (e Extent) Bounded() bool {
	return e.bounded
}

// Or returns the length, or def when unbounded.
func (e Extent) Or(def float64) float64 {
	if e.bounded {
		return e.value
	}
	return def
}

// shrink reduces a bounded extent by d, never below zero.
func (e Extent) shrink(d float64) Extent {
	if !e.bounded {
		return e
	}
	return Fixed(math.Max(e.value-d, 0))
}

// String returns the length or "unbounded".
func (e Extent) String() string {
	if !e.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%g", e.value)
}

// MarshalJSON encodes a bounded extent as a number and Unbounded as null.
func (e Extent) MarshalJSON() ([]byte, error) {
	if !e.bounded {
		return []byte("null"), nil
	}
	return json.Marshal(e.value)
}

// UnmarshalJSON decodes a number or null.
func (e *Extent) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*e = Unbounded
		return nil
	}
	*e = Fixed(*v)
	return nil
}

// Proposal is the space a parent offers a child. Children never modify it.
type Proposal struct {
	Width  Extent `json:"width"`
	Height Extent `json:"height"`
}

// Propose returns a proposal bounded on both axes.
func Propose(width, height float64) Proposal {
	return Proposal{Width: Fixed(width), Height: Fixed(height)}
}

// ProposeSize returns a proposal bounded to s.
func ProposeSize(s Size) Proposal {
	return Propose(s.Width, s.Height)
}

// UnboundedProposal asks for the ideal size on both axes.
var UnboundedProposal = Proposal{}

// Along returns the extent on axis a.
func (p Proposal) Along(a Axis) Extent {
	if a == Horizontal {
		return p.Width
	}
	return p.Height
}

// String formats the proposal as "width x height".
func (p Proposal) String() string {
	return p.Width.String() + "x" + p.Height.String()
}

func proposalOn(axis Axis, main, cross Extent) Proposal {
	if axis == Horizontal {
		return Proposal{Width: main, Height: cross}
	}
	return Proposal{Width: cross, Height: main}
}
