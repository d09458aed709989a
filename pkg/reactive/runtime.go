package reactive

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"
)

// Runtime owns propagation state for a family of signals. Signals created
// from each other always share their sources' runtime.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	observers []Observer
	logger    *slog.Logger

	// running is true while a batch (and its queued followers) executes.
	running bool

	// queue holds bindings written by watchers during a batch.
	queue []*node

	// current accumulates statistics for the batch in flight.
	current *PropagationStats
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithObserver registers an observer that receives statistics for every
// propagation batch.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		if o != nil {
			rt.observers = append(rt.observers, o)
		}
	}
}

// WithLogger sets the logger used for debug-level batch logging.
// If unset, slog.Default() is used at log time.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// NewRuntime creates an independent runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var defaultRuntime = NewRuntime()

// Default returns the process-wide runtime used by NewBinding.
func Default() *Runtime {
	return defaultRuntime
}

// AddObserver registers o and returns a function that removes it.
func (rt *Runtime) AddObserver(o Observer) (remove func()) {
	// Wrapped so removal compares pointers; ObserverFunc values are not
	// comparable.
	entry := &observerEntry{o}
	rt.observers = append(rt.observers, entry)
	return func() {
		for i, existing := range rt.observers {
			if e, ok := existing.(*observerEntry); ok && e == entry {
				rt.observers = append(rt.observers[:i:i], rt.observers[i+1:]...)
				return
			}
		}
	}
}

type observerEntry struct{ Observer }

// Propagating reports whether a batch is currently executing.
func (rt *Runtime) Propagating() bool {
	return rt.running
}

func (rt *Runtime) log() *slog.Logger {
	if rt.logger != nil {
		return rt.logger
	}
	return slog.Default().With("component", "reactive")
}

func (rt *Runtime) countRecompute() {
	if rt.current != nil {
		rt.current.Recomputed++
	}
}

// propagate runs the batch rooted at a freshly written binding. Calls made
// while a batch is running are queued and drained in FIFO order.
func (rt *Runtime) propagate(root *node) {
	if rt.running {
		rt.queue = append(rt.queue, root)
		return
	}

	rt.running = true
	completed := false
	defer func() {
		if !completed {
			// A derivation or watcher panicked. Leave the runtime usable;
			// unvisited nodes are stale by version and will pull on Get.
			rt.queue = nil
			rt.current = nil
		}
		rt.running = false
	}()

	rt.runBatch(root)
	for len(rt.queue) > 0 {
		next := rt.queue[0]
		rt.queue = rt.queue[1:]
		rt.runBatch(next)
	}
	rt.queue = nil
	completed = true
}

// runBatch visits the downstream closure of root once, in height order.
func (rt *Runtime) runBatch(root *node) {
	stats := &PropagationStats{
		Root:  root.id,
		Label: root.label,
		Start: time.Now(),
	}
	prev := rt.current
	rt.current = stats

	panicked := true
	defer func() {
		stats.Duration = time.Since(stats.Start)
		stats.Panicked = panicked
		rt.current = prev
		rt.report(*stats)
	}()

	order := closure(root)
	stats.Nodes = len(order)

	for _, n := range order {
		if n != root {
			if !n.observed() {
				// Released by an earlier watcher in this batch.
				continue
			}
			n.refresh()
		}
		stats.Notified += n.notify()
	}
	panicked = false
}

func (rt *Runtime) report(stats PropagationStats) {
	if l := rt.log(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("propagation",
			"root", stats.Root,
			"label", stats.Label,
			"nodes", stats.Nodes,
			"recomputed", stats.Recomputed,
			"notified", stats.Notified,
			"duration", stats.Duration,
			"panicked", stats.Panicked,
		)
	}
	for _, o := range rt.observers {
		o.ObservePropagation(stats)
	}
}

// closure returns root followed by every observed node reachable through
// subscription edges, sorted by (height, id). Height strictly increases
// along every edge, so this is a topological order of the affected subgraph.
func closure(root *node) []*node {
	seen := map[*node]struct{}{root: {}}
	order := []*node{root}
	stack := []*node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range n.subs {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			order = append(order, d)
			stack = append(stack, d)
		}
	}

	slices.SortFunc(order, func(a, b *node) int {
		if c := cmp.Compare(a.height, b.height); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return order
}
