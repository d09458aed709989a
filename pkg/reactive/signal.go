package reactive

// Source is the untyped view shared by every signal. It is what Sprintf
// and other heterogeneous combinators accept.
//
// The interface is closed: only Binding, Computed and Constant implement it.
type Source interface {
	// graphNode returns the node backing the signal, or nil for constants.
	graphNode() *node

	// currentAny returns the cached value without refreshing.
	currentAny() any
}

// Signal is an observable, readable value source.
type Signal[T any] interface {
	Source

	// Get returns the current value. It never blocks and never returns a
	// value computed from a mix of old and new upstream state.
	Get() T

	// Watch registers fn to run once per propagation that reaches this
	// signal, after the signal's own value is current. Release the returned
	// guard to unsubscribe.
	Watch(fn func(T)) *Guard

	// current returns the cached value without refreshing. Used by
	// derivations after their sources were refreshed.
	current() T
}

// runtimeOf picks the runtime shared by sources, panicking on a mix.
func runtimeOf(sources []*node) *Runtime {
	var rt *Runtime
	for _, src := range sources {
		if rt == nil {
			rt = src.rt
			continue
		}
		if src.rt != rt {
			panic("reactive: signals belong to different runtimes")
		}
	}
	if rt == nil {
		rt = Default()
	}
	return rt
}

// nodesOf collects the graph nodes of the given sources. Constants have no
// node and contribute no edge.
func nodesOf(sources ...Source) []*node {
	nodes := make([]*node, 0, len(sources))
	for _, s := range sources {
		if s == nil {
			panic("reactive: nil signal")
		}
		if n := s.graphNode(); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
