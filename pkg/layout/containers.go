package layout

import "math"

// Overlay stacks children on top of each other. Its size is the largest
// child size on each axis, or the full proposal on an axis where some child
// stretches and the proposal is bounded.
type Overlay struct {
	Box
	Children []Node

	alignment    Alignment
	alignmentSet bool
}

// NewOverlay returns an overlay of children, first child at the bottom.
func NewOverlay(children ...Node) *Overlay {
	return &Overlay{Children: children}
}

// WithAlignment sets the alignment on both axes.
func (o *Overlay) WithAlignment(a Alignment) *Overlay {
	o.alignment = a
	o.alignmentSet = true
	return o
}

// Kind implements placement reporting.
func (o *Overlay) Kind() string { return "overlay" }

// Measure implements Node.
func (o *Overlay) Measure(ctx *Context, p Proposal) Size {
	var size Size
	stretchW, stretchH := false, false
	for _, child := range o.Children {
		s := ctx.Measure(child, p)
		size.Width = math.Max(size.Width, s.Width)
		size.Height = math.Max(size.Height, s.Height)
		st := child.Traits().Stretch
		stretchW = stretchW || st.Along(Horizontal)
		stretchH = stretchH || st.Along(Vertical)
	}
	if w, ok := p.Width.Value(); ok && stretchW {
		size.Width = w
	}
	if h, ok := p.Height.Value(); ok && stretchH {
		size.Height = h
	}
	return size
}

// Place implements Node.
func (o *Overlay) Place(ctx *Context, r Rect) {
	o.SetRect(r)
	align := ctx.Config().Alignment
	if o.alignmentSet {
		align = o.alignment
	}
	for _, child := range o.Children {
		s := ctx.Measure(child, ProposeSize(r.Size))
		st := child.Traits().Stretch
		if st.Along(Horizontal) {
			s.Width = r.Size.Width
		}
		if st.Along(Vertical) {
			s.Height = r.Size.Height
		}
		origin := Point{
			X: r.Origin.X + align.offset(r.Size.Width-s.Width),
			Y: r.Origin.Y + align.offset(r.Size.Height-s.Height),
		}
		ctx.Place(child, Rect{Origin: origin, Size: s})
	}
}

// Insets are padding amounts per edge.
type Insets struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// UniformInsets returns equal insets on every edge.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Left: v, Bottom: v, Right: v}
}

func (in Insets) horizontal() float64 { return in.Left + in.Right }
func (in Insets) vertical() float64   { return in.Top + in.Bottom }

// Padding surrounds a child with fixed insets. It passes the child's
// traits through, so a padded stretcher still stretches.
type Padding struct {
	Box
	Child  Node
	Insets Insets
}

// NewPadding wraps child with insets.
func NewPadding(child Node, insets Insets) *Padding {
	return &Padding{Child: child, Insets: insets}
}

// Traits implements Node.
func (p *Padding) Traits() Traits {
	return p.Child.Traits()
}

// Kind implements placement reporting.
func (p *Padding) Kind() string { return "padding" }

// Measure implements Node.
func (p *Padding) Measure(ctx *Context, prop Proposal) Size {
	inner := Proposal{
		Width:  prop.Width.shrink(p.Insets.horizontal()),
		Height: prop.Height.shrink(p.Insets.vertical()),
	}
	s := ctx.Measure(p.Child, inner)
	return Size{
		Width:  s.Width + p.Insets.horizontal(),
		Height: s.Height + p.Insets.vertical(),
	}
}

// Place implements Node.
func (p *Padding) Place(ctx *Context, r Rect) {
	p.SetRect(r)
	ctx.Place(p.Child, RectOf(
		r.Origin.X+p.Insets.Left,
		r.Origin.Y+p.Insets.Top,
		math.Max(r.Size.Width-p.Insets.horizontal(), 0),
		math.Max(r.Size.Height-p.Insets.vertical(), 0),
	))
}

// Frame constrains a child to fixed or bounded dimensions. Unset fields are
// Unbounded. A fixed dimension removes that axis from the child's stretch.
type Frame struct {
	Box
	Child Node

	Width, Height        Extent
	MinWidth, MaxWidth   Extent
	MinHeight, MaxHeight Extent

	alignment    Alignment
	alignmentSet bool
}

// NewFrame wraps child in an unconstrained frame.
func NewFrame(child Node) *Frame {
	return &Frame{Child: child}
}

// FixedFrame wraps child in a frame of exactly width x height.
func FixedFrame(child Node, width, height float64) *Frame {
	return &Frame{Child: child, Width: Fixed(width), Height: Fixed(height)}
}

// WithAlignment sets how the child is positioned inside the frame.
func (f *Frame) WithAlignment(a Alignment) *Frame {
	f.alignment = a
	f.alignmentSet = true
	return f
}

// Traits implements Node.
func (f *Frame) Traits() Traits {
	t := f.Child.Traits()
	if f.Width.Bounded() {
		t.Stretch = t.Stretch.without(Horizontal)
	}
	if f.Height.Bounded() {
		t.Stretch = t.Stretch.without(Vertical)
	}
	return t
}

// Kind implements placement reporting.
func (f *Frame) Kind() string { return "frame" }

func constrainExtent(e, fixed, lo, hi Extent) Extent {
	if fixed.Bounded() {
		return fixed
	}
	v, ok := e.Value()
	if !ok {
		return e
	}
	return Fixed(clampLength(v, lo, hi))
}

func clampLength(v float64, lo, hi Extent) float64 {
	if upper, ok := hi.Value(); ok && v > upper {
		v = upper
	}
	if lower, ok := lo.Value(); ok && v < lower {
		v = lower
	}
	return v
}

func (f *Frame) childProposal(p Proposal) Proposal {
	return Proposal{
		Width:  constrainExtent(p.Width, f.Width, f.MinWidth, f.MaxWidth),
		Height: constrainExtent(p.Height, f.Height, f.MinHeight, f.MaxHeight),
	}
}

// Measure implements Node.
func (f *Frame) Measure(ctx *Context, p Proposal) Size {
	s := ctx.Measure(f.Child, f.childProposal(p))
	if v, ok := f.Width.Value(); ok {
		s.Width = v
	} else {
		s.Width = clampLength(s.Width, f.MinWidth, f.MaxWidth)
	}
	if v, ok := f.Height.Value(); ok {
		s.Height = v
	} else {
		s.Height = clampLength(s.Height, f.MinHeight, f.MaxHeight)
	}
	return s
}

// Place implements Node.
func (f *Frame) Place(ctx *Context, r Rect) {
	f.SetRect(r)
	align := ctx.Config().Alignment
	if f.alignmentSet {
		align = f.alignment
	}
	s := ctx.Measure(f.Child, ProposeSize(r.Size))
	st := f.Child.Traits().Stretch
	if st.Along(Horizontal) || s.Width > r.Size.Width {
		s.Width = r.Size.Width
	}
	if st.Along(Vertical) || s.Height > r.Size.Height {
		s.Height = r.Size.Height
	}
	ctx.Place(f.Child, Rect{
		Origin: Point{
			X: r.Origin.X + align.offset(r.Size.Width-s.Width),
			Y: r.Origin.Y + align.offset(r.Size.Height-s.Height),
		},
		Size: s,
	})
}

// Relative sizes its child as a fraction of the proposal. A fraction of
// zero leaves that axis to the child.
//
// A fraction of an unbounded proposal is undefined. In that case the axis
// falls back to the child's ideal size and the pass counts a fallback.
type Relative struct {
	Box
	Child          Node
	WidthFraction  float64
	HeightFraction float64
}

// NewRelative wraps child with the given fractions.
func NewRelative(child Node, widthFraction, heightFraction float64) *Relative {
	return &Relative{Child: child, WidthFraction: widthFraction, HeightFraction: heightFraction}
}

// Traits implements Node.
func (rel *Relative) Traits() Traits {
	return rel.Child.Traits()
}

// Kind implements placement reporting.
func (rel *Relative) Kind() string { return "relative" }

// Measure implements Node.
func (rel *Relative) Measure(ctx *Context, p Proposal) Size {
	inner := p
	resolved := [2]bool{}
	var size Size

	if rel.WidthFraction > 0 {
		if w, ok := p.Width.Value(); ok {
			size.Width = w * rel.WidthFraction
			inner.Width = Fixed(size.Width)
			resolved[Horizontal] = true
		} else {
			ctx.fallback("relative", "unbounded width")
		}
	}
	if rel.HeightFraction > 0 {
		if h, ok := p.Height.Value(); ok {
			size.Height = h * rel.HeightFraction
			inner.Height = Fixed(size.Height)
			resolved[Vertical] = true
		} else {
			ctx.fallback("relative", "unbounded height")
		}
	}

	child := ctx.Measure(rel.Child, inner)
	if !resolved[Horizontal] {
		size.Width = child.Width
	}
	if !resolved[Vertical] {
		size.Height = child.Height
	}
	return size
}

// Place implements Node.
func (rel *Relative) Place(ctx *Context, r Rect) {
	rel.SetRect(r)
	ctx.Place(rel.Child, r)
}
