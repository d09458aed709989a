package layout

import (
	"fmt"
	"strings"
)

// Node is anything that takes part in layout.
//
// Measure reports the node's size for a proposal. It may be called several
// times per pass with different proposals and must not have side effects
// beyond measuring children through ctx.
//
// Place assigns the node's final rectangle. Containers place their children
// through ctx.Place.
//
// Nodes must be pointer types: the per-pass measurement cache is keyed by
// node identity.
type Node interface {
	Measure(ctx *Context, p Proposal) Size
	Place(ctx *Context, r Rect)
	Traits() Traits
}

// Box is the embeddable base for nodes. It stores traits and the rectangle
// assigned by the last pass.
type Box struct {
	traits Traits
	rect   Rect
	placed bool
}

// Traits returns the node's declaration.
func (b *Box) Traits() Traits {
	return b.traits
}

// SetTraits replaces the node's declaration.
func (b *Box) SetTraits(t Traits) {
	b.traits = t
}

// Rect returns the rectangle assigned by the last Place.
func (b *Box) Rect() Rect {
	return b.rect
}

// Placed reports whether the node has been placed at least once.
func (b *Box) Placed() bool {
	return b.placed
}

// SetRect records r as the node's rectangle. Nodes call it from Place.
func (b *Box) SetRect(r Rect) {
	b.rect = r
	b.placed = true
}

// stackAware is implemented by nodes whose measurement depends on the axis
// of an enclosing stack.
type stackAware interface {
	measureInStack(ctx *Context, axis Axis, p Proposal) Size
}

// identified is implemented by nodes carrying an ID.
type identified interface {
	ID() string
}

// kinded is implemented by nodes reporting a kind for placements.
type kinded interface {
	Kind() string
}

func idOf(n Node) string {
	if i, ok := n.(identified); ok {
		return i.ID()
	}
	return ""
}

func kindOf(n Node) string {
	if k, ok := n.(kinded); ok {
		return k.Kind()
	}
	name := fmt.Sprintf("%T", n)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}
