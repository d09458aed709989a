package layout

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/lattice/pkg/env"
)

// Environment keys read by ConfigFrom.
var (
	// SpacingKey is the gap between stack children that did not set one.
	SpacingKey = env.NewKey("layout.spacing", 8.0)

	// AlignmentKey is the cross-axis alignment for stacks and overlays that
	// did not set one.
	AlignmentKey = env.NewKey("layout.alignment", AlignCenter)
)

// Config holds the defaults a pass applies to nodes that leave a policy
// unspecified.
type Config struct {
	Spacing   float64
	Alignment Alignment
}

// DefaultConfig returns the defaults of an empty environment.
func DefaultConfig() Config {
	return ConfigFrom(nil)
}

// ConfigFrom resolves a Config from an environment.
func ConfigFrom(e *env.Environment) Config {
	return Config{
		Spacing:   env.Value(e, SpacingKey),
		Alignment: env.Value(e, AlignmentKey),
	}
}

// PassStats summarizes one layout pass.
type PassStats struct {
	Nodes     int
	Measures  int
	CacheHits int
	Fallbacks int
	Start     time.Time
	Duration  time.Duration
}

// Observer receives statistics after every pass.
type Observer interface {
	ObservePass(ctx context.Context, stats PassStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, stats PassStats)

// ObservePass calls f(ctx, stats).
func (f ObserverFunc) ObservePass(ctx context.Context, stats PassStats) {
	f(ctx, stats)
}

// Result is the outcome of a pass.
type Result struct {
	Size       Size        `json:"size"`
	Placements []Placement `json:"placements"`
	Stats      PassStats   `json:"-"`
}

// Find returns the first placement with the given ID.
func (r Result) Find(id string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Engine runs layout passes. An Engine holds no per-pass state and may be
// reused; passes over distinct trees may run concurrently.
type Engine struct {
	config    Config
	observers []Observer
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEnvironment resolves the engine's Config from e.
func WithEnvironment(e *env.Environment) EngineOption {
	return func(en *Engine) {
		en.config = ConfigFrom(e)
	}
}

// WithConfig sets the engine's Config directly.
func WithConfig(c Config) EngineOption {
	return func(en *Engine) {
		en.config = c
	}
}

// WithObserver registers a pass observer.
func WithObserver(o Observer) EngineOption {
	return func(en *Engine) {
		if o != nil {
			en.observers = append(en.observers, o)
		}
	}
}

// WithLogger sets the logger used for policy fallbacks.
func WithLogger(l *slog.Logger) EngineOption {
	return func(en *Engine) {
		en.logger = l
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	en := &Engine{config: DefaultConfig()}
	for _, opt := range opts {
		opt(en)
	}
	return en
}

// Layout measures root under p, places it at the origin with its measured
// size, and returns every placement in tree order. The result is a pure
// function of the tree and the proposal.
func (e *Engine) Layout(ctx context.Context, root Node, p Proposal) Result {
	if root == nil {
		panic("layout: nil root")
	}
	lc := NewContext(e.config, e.logger)
	lc.stats.Start = time.Now()

	size := lc.Measure(root, p)
	lc.Place(root, Rect{Size: size})

	lc.stats.Nodes = len(lc.placements)
	lc.stats.Duration = time.Since(lc.stats.Start)
	for _, o := range e.observers {
		o.ObservePass(ctx, lc.stats)
	}

	return Result{
		Size:       size,
		Placements: lc.placements,
		Stats:      lc.stats,
	}
}
