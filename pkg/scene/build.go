package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/layout"
)

// Text metrics used when a text node leaves them out.
const (
	DefaultCharWidth  = 8.0
	DefaultLineHeight = 16.0
)

const nodeTypes = "leaf, text, spacer, hstack, vstack, overlay, padding, frame or relative"

const nodeExample = `{"type": "leaf", "id": "button", "width": 80, "height": 24}`

type builder struct {
	ids   map[string]string
	count int
}

func attrError(path, format string, args ...any) error {
	return errors.New("E203").WithPath(path).WithDetailf(format, args...)
}

func childCount(n *Node, path string, want int) error {
	if len(n.Children) == want {
		return nil
	}
	return errors.New("E204").WithPath(path).
		WithDetailf("%s takes %d child node(s), got %d", n.Type, want, len(n.Children))
}

func length(path, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, attrError(path, "%s must be a non-negative number, got %g", field, *v)
	}
	return *v, nil
}

func extent(path, field string, v *float64) (layout.Extent, error) {
	if v == nil {
		return layout.Unbounded, nil
	}
	l, err := length(path, field, v)
	if err != nil {
		return layout.Unbounded, err
	}
	return layout.Fixed(l), nil
}

func (b *builder) children(n *Node, path string) ([]layout.Node, error) {
	out := make([]layout.Node, 0, len(n.Children))
	for i := range n.Children {
		child, err := b.build(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func (b *builder) only(n *Node, path string) (layout.Node, error) {
	if err := childCount(n, path, 1); err != nil {
		return nil, err
	}
	return b.build(&n.Children[0], path+".children[0]")
}

func (b *builder) build(n *Node, path string) (layout.Node, error) {
	b.count++
	var (
		node layout.Node
		err  error
	)

	switch strings.ToLower(n.Type) {
	case "leaf":
		node, err = b.leaf(n, path)
	case "text", "measured-text":
		node, err = b.text(n, path)
	case "spacer":
		node, err = b.spacer(n, path)
	case "hstack", "vstack":
		node, err = b.stack(n, path)
	case "overlay":
		node, err = b.overlay(n, path)
	case "padding":
		node, err = b.padding(n, path)
	case "frame":
		node, err = b.frame(n, path)
	case "relative":
		node, err = b.relative(n, path)
	case "":
		return nil, errors.New("E202").WithPath(path).WithExample(nodeExample).
			WithDetail("node has no type; use one of " + nodeTypes)
	default:
		return nil, errors.New("E202").WithPath(path).WithExample(nodeExample).
			WithDetailf("unknown type %q; use one of %s", n.Type, nodeTypes)
	}
	if err != nil {
		return nil, err
	}

	if node, err = applyTraits(node, n, path); err != nil {
		return nil, err
	}

	if n.ID != "" {
		if prev, dup := b.ids[n.ID]; dup {
			return nil, errors.New("E205").WithPath(path).
				WithDetailf("id %q is already used at %s", n.ID, prev)
		}
		b.ids[n.ID] = path
		node = layout.Identified(node, n.ID)
	}
	return node, nil
}

func applyTraits(node layout.Node, n *Node, path string) (layout.Node, error) {
	if n.Stretch != "" {
		s, err := layout.ParseStretch(n.Stretch)
		if err != nil {
			return nil, attrError(path, "unknown stretch %q; use none, horizontal, vertical, both, main or cross", n.Stretch)
		}
		node = layout.Stretched(node, s)
	}
	if n.Weight != nil {
		w := *n.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, attrError(path, "weight must be a non-negative number, got %g", w)
		}
		node = layout.Weighted(node, w)
	}
	if n.Priority != nil {
		node = layout.Prioritized(node, *n.Priority)
	}
	return node, nil
}

func (b *builder) leaf(n *Node, path string) (layout.Node, error) {
	if err := childCount(n, path, 0); err != nil {
		return nil, err
	}
	w, err := length(path, "width", n.Width)
	if err != nil {
		return nil, err
	}
	h, err := length(path, "height", n.Height)
	if err != nil {
		return nil, err
	}
	leaf := layout.NewLeaf(w, h)
	switch strings.ToLower(n.Policy) {
	case "", "clamp":
	case "overflow":
		leaf.Policy = layout.Overflow
	default:
		return nil, attrError(path, "unknown policy %q; use clamp or overflow", n.Policy)
	}
	return leaf, nil
}

func (b *builder) text(n *Node, path string) (layout.Node, error) {
	if err := childCount(n, path, 0); err != nil {
		return nil, err
	}
	cw, lh := n.CharWidth, n.LineHeight
	if cw == 0 {
		cw = DefaultCharWidth
	}
	if lh == 0 {
		lh = DefaultLineHeight
	}
	if cw < 0 || lh < 0 {
		return nil, attrError(path, "charWidth and lineHeight must be positive")
	}
	return layout.NewText(n.Text, cw, lh), nil
}

func (b *builder) spacer(n *Node, path string) (layout.Node, error) {
	if err := childCount(n, path, 0); err != nil {
		return nil, err
	}
	if n.MinLength < 0 {
		return nil, attrError(path, "minLength must not be negative")
	}
	return layout.NewSpacer(n.MinLength), nil
}

func alignment(n *Node, path string) (layout.Alignment, bool, error) {
	if n.Align == "" {
		return 0, false, nil
	}
	a, err := layout.ParseAlignment(n.Align)
	if err != nil {
		return 0, false, attrError(path, "unknown align %q; use start, center or end", n.Align)
	}
	return a, true, nil
}

func (b *builder) stack(n *Node, path string) (layout.Node, error) {
	children, err := b.children(n, path)
	if err != nil {
		return nil, err
	}
	s := layout.HStack(children...)
	if strings.EqualFold(n.Type, "vstack") {
		s = layout.VStack(children...)
	}
	if n.Spacing != nil {
		v, err := length(path, "spacing", n.Spacing)
		if err != nil {
			return nil, err
		}
		s.WithSpacing(v)
	}
	if a, ok, err := alignment(n, path); err != nil {
		return nil, err
	} else if ok {
		s.WithAlignment(a)
	}
	if n.Distribute != "" {
		d, err := layout.ParseDistribution(n.Distribute)
		if err != nil {
			return nil, attrError(path, "unknown distribute %q; use start, center, end or space-between", n.Distribute)
		}
		s.WithDistribution(d)
	}
	return s, nil
}

func (b *builder) overlay(n *Node, path string) (layout.Node, error) {
	children, err := b.children(n, path)
	if err != nil {
		return nil, err
	}
	o := layout.NewOverlay(children...)
	if a, ok, err := alignment(n, path); err != nil {
		return nil, err
	} else if ok {
		o.WithAlignment(a)
	}
	return o, nil
}

func (b *builder) padding(n *Node, path string) (layout.Node, error) {
	child, err := b.only(n, path)
	if err != nil {
		return nil, err
	}
	var in layout.Insets
	if n.Insets != nil {
		in = layout.Insets(*n.Insets)
	}
	for _, v := range []float64{in.Top, in.Left, in.Bottom, in.Right} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, attrError(path, "insets must be non-negative")
		}
	}
	return layout.NewPadding(child, in), nil
}

func (b *builder) frame(n *Node, path string) (layout.Node, error) {
	child, err := b.only(n, path)
	if err != nil {
		return nil, err
	}
	f := layout.NewFrame(child)
	fields := []struct {
		name string
		src  *float64
		dst  *layout.Extent
	}{
		{"width", n.Width, &f.Width},
		{"height", n.Height, &f.Height},
		{"minWidth", n.MinWidth, &f.MinWidth},
		{"maxWidth", n.MaxWidth, &f.MaxWidth},
		{"minHeight", n.MinHeight, &f.MinHeight},
		{"maxHeight", n.MaxHeight, &f.MaxHeight},
	}
	for _, fld := range fields {
		e, err := extent(path, fld.name, fld.src)
		if err != nil {
			return nil, err
		}
		*fld.dst = e
	}
	if a, ok, err := alignment(n, path); err != nil {
		return nil, err
	} else if ok {
		f.WithAlignment(a)
	}
	return f, nil
}

func (b *builder) relative(n *Node, path string) (layout.Node, error) {
	child, err := b.only(n, path)
	if err != nil {
		return nil, err
	}
	if n.Fraction == nil {
		return nil, attrError(path, "relative needs a fraction")
	}
	for _, v := range []float64{n.Fraction.Width, n.Fraction.Height} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return nil, attrError(path, "fractions must be between 0 and 1, got %g", v)
		}
	}
	return layout.NewRelative(child, n.Fraction.Width, n.Fraction.Height), nil
}
