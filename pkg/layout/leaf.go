package layout

import (
	"math"
	"unicode/utf8"
)

// SizingPolicy controls how a leaf reacts to a proposal smaller than its
// intrinsic size.
type SizingPolicy uint8

const (
	// Clamp reports min(intrinsic, proposal) on bounded axes.
	Clamp SizingPolicy = iota
	// Overflow always reports the intrinsic size.
	Overflow
)

// String returns the policy name used in scene documents.
func (p SizingPolicy) String() string {
	if p == Overflow {
		return "overflow"
	}
	return "clamp"
}

// Leaf is a primitive node with a fixed intrinsic size.
type Leaf struct {
	Box
	Intrinsic Size
	Policy    SizingPolicy
}

// NewLeaf returns a clamping leaf with the given intrinsic size.
func NewLeaf(width, height float64) *Leaf {
	return &Leaf{Intrinsic: Size{Width: width, Height: height}}
}

// Measure implements Node.
func (l *Leaf) Measure(_ *Context, p Proposal) Size {
	s := l.Intrinsic
	if l.Policy == Clamp {
		if w, ok := p.Width.Value(); ok && s.Width > w {
			s.Width = w
		}
		if h, ok := p.Height.Value(); ok && s.Height > h {
			s.Height = h
		}
	}
	return s
}

// Place implements Node.
func (l *Leaf) Place(_ *Context, r Rect) {
	l.SetRect(r)
}

// Kind implements placement reporting.
func (l *Leaf) Kind() string { return "leaf" }

// Measured is a leaf whose size is derived from its content by a function.
type Measured struct {
	Box
	Fn   func(p Proposal) Size
	kind string
}

// NewMeasured returns a content-derived leaf.
func NewMeasured(fn func(Proposal) Size) *Measured {
	return &Measured{Fn: fn, kind: "measured"}
}

// Measure implements Node.
func (m *Measured) Measure(_ *Context, p Proposal) Size {
	if m.Fn == nil {
		return Size{}
	}
	return m.Fn(p)
}

// Place implements Node.
func (m *Measured) Place(_ *Context, r Rect) {
	m.SetRect(r)
}

// Kind implements placement reporting.
func (m *Measured) Kind() string { return m.kind }

// NewText returns a leaf sized like monospaced text that wraps to the
// proposed width. Each rune is charWidth wide and each line lineHeight tall.
// Under an unbounded width the text stays on one line.
func NewText(text string, charWidth, lineHeight float64) *Measured {
	runes := float64(utf8.RuneCountInString(text))
	m := NewMeasured(func(p Proposal) Size {
		if runes == 0 || charWidth <= 0 {
			return Size{Height: lineHeight}
		}
		full := runes * charWidth
		w, ok := p.Width.Value()
		if !ok || w >= full {
			return Size{Width: full, Height: lineHeight}
		}
		perLine := math.Max(math.Floor(w/charWidth), 1)
		lines := math.Ceil(runes / perLine)
		return Size{Width: perLine * charWidth, Height: lines * lineHeight}
	})
	m.kind = "text"
	return m
}

// Spacer is a flexible gap. Inside a stack it measures MinLength along the
// stack axis and nothing across it, and stretches along the main axis by
// default.
type Spacer struct {
	Box
	MinLength float64
}

// NewSpacer returns a spacer with the given minimum length.
func NewSpacer(minLength float64) *Spacer {
	s := &Spacer{MinLength: minLength}
	s.SetTraits(Traits{Stretch: StretchMainAxis})
	return s
}

// Measure implements Node. Outside a stack a spacer is a square of
// MinLength, clamped to the proposal.
func (s *Spacer) Measure(_ *Context, p Proposal) Size {
	return Size{
		Width:  math.Min(s.MinLength, p.Width.Or(s.MinLength)),
		Height: math.Min(s.MinLength, p.Height.Or(s.MinLength)),
	}
}

func (s *Spacer) measureInStack(_ *Context, axis Axis, p Proposal) Size {
	main := s.MinLength
	if v, ok := p.Along(axis).Value(); ok && v > main {
		main = v
	}
	return sizeOn(axis, main, 0)
}

// Place implements Node.
func (s *Spacer) Place(_ *Context, r Rect) {
	s.SetRect(r)
}

// Kind implements placement reporting.
func (s *Spacer) Kind() string { return "spacer" }
