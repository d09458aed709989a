package layout

import (
	"log/slog"
)

// Placement records one assigned rectangle.
type Placement struct {
	ID    string `json:"id,omitempty"`
	Kind  string `json:"kind"`
	Depth int    `json:"depth"`
	Rect  Rect   `json:"rect"`
}

// measureKey identifies a cached measurement. axis is 0 outside stacks and
// 1+Axis for stack-relative measurements.
type measureKey struct {
	node Node
	p    Proposal
	axis uint8
}

// Context carries per-pass state: configuration, the measurement cache, and
// the placements recorded so far.
type Context struct {
	config     Config
	logger     *slog.Logger
	cache      map[measureKey]Size
	placements []Placement
	depth      int
	stats      PassStats
}

// NewContext returns a fresh pass context.
func NewContext(config Config, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default().With("component", "layout")
	}
	return &Context{
		config: config,
		logger: logger,
		cache:  make(map[measureKey]Size),
	}
}

// Config returns the pass configuration.
func (c *Context) Config() Config {
	return c.config
}

// Measure measures n under p, reusing a cached result for the same node
// and proposal within the pass.
func (c *Context) Measure(n Node, p Proposal) Size {
	key := measureKey{node: n, p: p}
	if s, ok := c.cache[key]; ok {
		c.stats.CacheHits++
		return s
	}
	c.stats.Measures++
	s := n.Measure(c, p).sanitize()
	c.cache[key] = s
	return s
}

// measureChild measures n as a child of a stack with the given axis.
func (c *Context) measureChild(n Node, axis Axis, p Proposal) Size {
	sa, ok := n.(stackAware)
	if !ok {
		return c.Measure(n, p)
	}
	key := measureKey{node: n, p: p, axis: uint8(axis) + 1}
	if s, ok := c.cache[key]; ok {
		c.stats.CacheHits++
		return s
	}
	c.stats.Measures++
	s := sa.measureInStack(c, axis, p).sanitize()
	c.cache[key] = s
	return s
}

// Place assigns r to n and records the placement.
func (c *Context) Place(n Node, r Rect) {
	c.placements = append(c.placements, Placement{
		ID:    idOf(n),
		Kind:  kindOf(n),
		Depth: c.depth,
		Rect:  r,
	})
	c.depth++
	n.Place(c, r)
	c.depth--
}

// fallback records that a policy default replaced an impossible request.
func (c *Context) fallback(kind, reason string) {
	c.stats.Fallbacks++
	c.logger.Debug("layout fallback", "kind", kind, "reason", reason)
}

// Placements returns the placements recorded so far, in placement order.
func (c *Context) Placements() []Placement {
	return c.placements
}
