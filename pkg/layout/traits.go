package layout

import (
	"fmt"
	"strings"
)

// Stretch declares the axes on which a node consumes leftover space.
type Stretch uint8

const (
	StretchNone Stretch = iota
	StretchHorizontal
	StretchVertical
	StretchBoth

	// StretchMainAxis and StretchCrossAxis are resolved against the axis of
	// the enclosing stack. Outside a stack they behave like StretchNone.
	StretchMainAxis
	StretchCrossAxis
)

var stretchNames = map[Stretch]string{
	StretchNone:       "none",
	StretchHorizontal: "horizontal",
	StretchVertical:   "vertical",
	StretchBoth:       "both",
	StretchMainAxis:   "main",
	StretchCrossAxis:  "cross",
}

// String returns the name used in scene documents.
func (s Stretch) String() string {
	if name, ok := stretchNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stretch(%d)", s)
}

// ParseStretch parses a stretch name as produced by String.
func ParseStretch(name string) (Stretch, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StretchNone, nil
	}
	for s, n := range stretchNames {
		if n == name {
			return s, nil
		}
	}
	return StretchNone, fmt.Errorf("layout: unknown stretch %q", name)
}

// Along reports whether s stretches on the absolute axis a.
func (s Stretch) Along(a Axis) bool {
	switch s {
	case StretchBoth:
		return true
	case StretchHorizontal:
		return a == Horizontal
	case StretchVertical:
		return a == Vertical
	default:
		return false
	}
}

// InStack reports whether s stretches on axis a inside a stack whose main
// axis is stackAxis.
func (s Stretch) InStack(stackAxis, a Axis) bool {
	switch s {
	case StretchMainAxis:
		return a == stackAxis
	case StretchCrossAxis:
		return a != stackAxis
	default:
		return s.Along(a)
	}
}

// without removes the absolute axis a from s. Relative declarations are
// kept as they are.
func (s Stretch) without(a Axis) Stretch {
	switch {
	case s == StretchBoth && a == Horizontal:
		return StretchVertical
	case s == StretchBoth && a == Vertical:
		return StretchHorizontal
	case s.Along(a) && s != StretchBoth:
		return StretchNone
	default:
		return s
	}
}

// Traits is a node's declaration to its container.
type Traits struct {
	// Stretch selects the axes on which the node takes leftover space.
	Stretch Stretch `json:"stretch"`

	// Weight is the node's share of leftover space relative to its
	// stretching siblings. Values <= 0 count as 1.
	Weight float64 `json:"weight"`

	// Priority orders shrinking when space runs short: lower priorities
	// shrink to zero before higher ones lose anything.
	Priority int `json:"priority"`
}

func (t Traits) weight() float64 {
	if t.Weight <= 0 {
		return 1
	}
	return t.Weight
}

// modified overrides the traits (and optionally the ID) of another node.
type modified struct {
	Node
	apply func(Traits) Traits
	id    string
}

func (m *modified) Traits() Traits {
	return m.apply(m.Node.Traits())
}

// ID returns the modifier's ID or the wrapped node's.
func (m *modified) ID() string {
	if m.id != "" {
		return m.id
	}
	return idOf(m.Node)
}

// Kind reports the wrapped node's kind.
func (m *modified) Kind() string {
	return kindOf(m.Node)
}

func (m *modified) measureInStack(ctx *Context, axis Axis, p Proposal) Size {
	return ctx.measureChild(m.Node, axis, p)
}

func modify(n Node, apply func(Traits) Traits) Node {
	if n == nil {
		panic("layout: nil node")
	}
	return &modified{Node: n, apply: apply}
}

// Stretched overrides the stretch declaration of n.
func Stretched(n Node, s Stretch) Node {
	return modify(n, func(t Traits) Traits { t.Stretch = s; return t })
}

// Weighted overrides the stretch weight of n.
func Weighted(n Node, w float64) Node {
	return modify(n, func(t Traits) Traits { t.Weight = w; return t })
}

// Prioritized overrides the shrink priority of n.
func Prioritized(n Node, p int) Node {
	return modify(n, func(t Traits) Traits { t.Priority = p; return t })
}

// WithTraits replaces all traits of n.
func WithTraits(n Node, traits Traits) Node {
	return modify(n, func(Traits) Traits { return traits })
}

// Identified tags n with an ID reported in placements.
func Identified(n Node, id string) Node {
	if n == nil {
		panic("layout: nil node")
	}
	return &modified{Node: n, apply: func(t Traits) Traits { return t }, id: id}
}
