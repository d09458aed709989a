package layout

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Alignment positions a child across the available space on one axis.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

var alignmentNames = map[Alignment]string{
	AlignStart:  "start",
	AlignCenter: "center",
	AlignEnd:    "end",
}

// String returns the name used in scene documents.
func (a Alignment) String() string {
	if n, ok := alignmentNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

// ParseAlignment parses an alignment name.
func ParseAlignment(name string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "start", "leading", "top":
		return AlignStart, nil
	case "center", "":
		return AlignCenter, nil
	case "end", "trailing", "bottom":
		return AlignEnd, nil
	}
	return AlignCenter, fmt.Errorf("layout: unknown alignment %q", name)
}

func (a Alignment) offset(free float64) float64 {
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	default:
		return 0
	}
}

// Distribution positions stack children along the main axis when the stack
// is placed in a rect longer than its children need.
type Distribution uint8

const (
	DistributeStart Distribution = iota
	DistributeCenter
	DistributeEnd
	DistributeSpaceBetween
)

// ParseDistribution parses a distribution name.
func ParseDistribution(name string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "start", "":
		return DistributeStart, nil
	case "center":
		return DistributeCenter, nil
	case "end":
		return DistributeEnd, nil
	case "space-between", "spacebetween":
		return DistributeSpaceBetween, nil
	}
	return DistributeStart, fmt.Errorf("layout: unknown distribution %q", name)
}

// Stack lays children out in a line along Axis.
//
// Measuring proceeds in two steps. Each child is first asked for its ideal
// length along the axis (unbounded main, the stack's cross proposal). When
// the proposal is bounded and the ideal lengths do not fit, children shrink
// by priority: the lowest priority group gives up space first, members of a
// group in proportion to their ideal length. When they fit with room to
// spare, the leftover goes to children stretching along the main axis in
// proportion to their weights. Non-stretching children never grow. Under an
// unbounded main proposal nothing shrinks or grows.
//
// Each child is then measured again with its final length, and its final
// rect spans that length. A child stretching across the axis spans the
// stack's cross extent when that extent is bounded.
type Stack struct {
	Box
	Axis     Axis
	Children []Node

	spacing      float64
	spacingSet   bool
	alignment    Alignment
	alignmentSet bool
	distribution Distribution
}

// HStack returns a horizontal stack.
func HStack(children ...Node) *Stack {
	return &Stack{Axis: Horizontal, Children: children}
}

// VStack returns a vertical stack.
func VStack(children ...Node) *Stack {
	return &Stack{Axis: Vertical, Children: children}
}

// WithSpacing sets the gap between adjacent children. Without it the pass
// Config's spacing applies.
func (s *Stack) WithSpacing(v float64) *Stack {
	s.spacing = finiteNonNegative(v)
	s.spacingSet = true
	return s
}

// WithAlignment sets the cross-axis alignment.
func (s *Stack) WithAlignment(a Alignment) *Stack {
	s.alignment = a
	s.alignmentSet = true
	return s
}

// WithDistribution sets the main-axis distribution of free space.
func (s *Stack) WithDistribution(d Distribution) *Stack {
	s.distribution = d
	return s
}

// Kind implements placement reporting.
func (s *Stack) Kind() string {
	if s.Axis == Horizontal {
		return "hstack"
	}
	return "vstack"
}

func (s *Stack) spacingFor(ctx *Context) float64 {
	if s.spacingSet {
		return s.spacing
	}
	return ctx.Config().Spacing
}

func (s *Stack) alignmentFor(ctx *Context) Alignment {
	if s.alignmentSet {
		return s.alignment
	}
	return ctx.Config().Alignment
}

// arrangement is the outcome of negotiating with the children.
type arrangement struct {
	slots   []float64
	cross   []float64
	stretch []bool
	size    Size
}

func (s *Stack) arrange(ctx *Context, p Proposal) arrangement {
	n := len(s.Children)
	arr := arrangement{
		slots:   make([]float64, n),
		cross:   make([]float64, n),
		stretch: make([]bool, n),
	}
	if n == 0 {
		return arr
	}

	axis, crossAxis := s.Axis, s.Axis.Cross()
	gaps := s.spacingFor(ctx) * float64(n-1)
	crossP := p.Along(crossAxis)

	traits := make([]Traits, n)
	desired := 0.0
	for i, child := range s.Children {
		traits[i] = child.Traits()
		ideal := ctx.measureChild(child, axis, proposalOn(axis, Unbounded, crossP))
		arr.slots[i] = ideal.Along(axis)
		desired += arr.slots[i]
	}

	if avail, ok := p.Along(axis).Value(); ok {
		avail = math.Max(avail-gaps, 0)
		switch {
		case desired > avail:
			shrinkByPriority(arr.slots, traits, desired-avail)
		case desired < avail:
			growStretchers(arr.slots, traits, axis, avail-desired)
		}
	}

	crossBound, crossBounded := crossP.Value()
	maxCross := 0.0
	anyCrossStretch := false
	for i, child := range s.Children {
		final := ctx.measureChild(child, axis, proposalOn(axis, Fixed(arr.slots[i]), crossP))
		arr.cross[i] = final.Along(crossAxis)
		if crossBounded && traits[i].Stretch.InStack(axis, crossAxis) {
			arr.stretch[i] = true
			arr.cross[i] = crossBound
			anyCrossStretch = true
		}
		maxCross = math.Max(maxCross, arr.cross[i])
	}
	if anyCrossStretch {
		maxCross = crossBound
	}

	main := gaps
	for _, v := range arr.slots {
		main += v
	}
	arr.size = sizeOn(axis, main, maxCross)
	return arr
}

// Measure implements Node.
func (s *Stack) Measure(ctx *Context, p Proposal) Size {
	return s.arrange(ctx, p).size
}

// Place implements Node.
func (s *Stack) Place(ctx *Context, r Rect) {
	s.SetRect(r)
	if len(s.Children) == 0 {
		return
	}

	axis, crossAxis := s.Axis, s.Axis.Cross()
	arr := s.arrange(ctx, ProposeSize(r.Size))
	spacing := s.spacingFor(ctx)
	align := s.alignmentFor(ctx)

	mainExtent := r.Size.Along(axis)
	crossExtent := r.Size.Along(crossAxis)
	free := math.Max(mainExtent-arr.size.Along(axis), 0)

	cursor := 0.0
	switch s.distribution {
	case DistributeCenter:
		cursor = free / 2
	case DistributeEnd:
		cursor = free
	case DistributeSpaceBetween:
		if len(s.Children) > 1 {
			spacing += free / float64(len(s.Children)-1)
		}
	}

	originMain := r.Origin.X
	originCross := r.Origin.Y
	if axis == Vertical {
		originMain, originCross = r.Origin.Y, r.Origin.X
	}

	for i, child := range s.Children {
		crossLen := arr.cross[i]
		crossOff := 0.0
		if arr.stretch[i] {
			crossLen = crossExtent
		} else {
			crossOff = align.offset(crossExtent - crossLen)
		}
		origin := offsetOn(axis, originMain+cursor, originCross+crossOff)
		ctx.Place(child, Rect{Origin: origin, Size: sizeOn(axis, arr.slots[i], crossLen)})
		cursor += arr.slots[i] + spacing
	}
}

// shrinkByPriority removes deficit from slots, lowest priority first.
// Within a priority group each slot loses in proportion to its length.
func shrinkByPriority(slots []float64, traits []Traits, deficit float64) {
	priorities := make([]int, 0, len(traits))
	for _, t := range traits {
		priorities = append(priorities, t.Priority)
	}
	slices.Sort(priorities)
	priorities = slices.Compact(priorities)

	for _, prio := range priorities {
		if deficit <= 0 {
			return
		}
		total := 0.0
		for i, t := range traits {
			if t.Priority == prio {
				total += slots[i]
			}
		}
		if total <= 0 {
			continue
		}
		if total <= deficit {
			for i, t := range traits {
				if t.Priority == prio {
					slots[i] = 0
				}
			}
			deficit -= total
			continue
		}
		ratio := deficit / total
		for i, t := range traits {
			if t.Priority == prio {
				slots[i] -= slots[i] * ratio
			}
		}
		return
	}
}

// growStretchers adds leftover to the slots of children stretching along
// axis, in proportion to their weights.
func growStretchers(slots []float64, traits []Traits, axis Axis, leftover float64) {
	totalWeight := 0.0
	for _, t := range traits {
		if t.Stretch.InStack(axis, axis) {
			totalWeight += t.weight()
		}
	}
	if totalWeight <= 0 {
		return
	}
	for i, t := range traits {
		if t.Stretch.InStack(axis, axis) {
			slots[i] += leftover * t.weight() / totalWeight
		}
	}
}
