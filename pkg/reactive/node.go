package reactive

// nodeKind distinguishes the graph-backed signal variants.
// Constants have no node at all.
type nodeKind uint8

const (
	kindBinding nodeKind = iota + 1
	kindComputed
)

func (k nodeKind) String() string {
	switch k {
	case kindBinding:
		return "binding"
	case kindComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// node is the type-erased part of a Binding or Computed. It is embedded by
// pointer in the typed handles and carries everything the propagation walk
// needs: ordering data, versions, and both edge directions.
type node struct {
	id     uint64
	kind   nodeKind
	label  string
	rt     *Runtime
	height int

	// version is bumped each time the node's value is replaced.
	version uint64

	// sources are the upstream nodes of a computed node. These references
	// are owning: a computed keeps its sources alive.
	sources []*node

	// seen holds each source's version as of the last evaluation.
	seen      []uint64
	evaluated bool

	// recompute evaluates the derivation and installs the result.
	recompute func()

	// subs are the observed downstream computed nodes. A computed appears
	// here only while it is itself observed, so this list never keeps an
	// abandoned computed reachable.
	subs []*node

	watchers []*watcher
}

// watcher is a single Watch registration.
type watcher struct {
	id     uint64
	fire   func()
	active bool
}

func newNode(rt *Runtime, kind nodeKind, sources []*node) *node {
	n := &node{
		id:      nextID(),
		kind:    kind,
		rt:      rt,
		sources: sources,
	}
	if len(sources) > 0 {
		n.seen = make([]uint64, len(sources))
		for _, src := range sources {
			if src.height >= n.height {
				n.height = src.height + 1
			}
		}
	} else if kind == kindComputed {
		n.height = 1
	}
	return n
}

// observed reports whether anything downstream depends on this node.
func (n *node) observed() bool {
	return len(n.watchers) > 0 || len(n.subs) > 0
}

// refresh brings a computed node up to date with its sources, pulling
// through stale sources first. Bindings are always current.
func (n *node) refresh() {
	if n.kind != kindComputed {
		return
	}
	stale := !n.evaluated
	for i, src := range n.sources {
		src.refresh()
		if src.version != n.seen[i] {
			stale = true
		}
	}
	if stale {
		n.evaluate()
	}
}

// evaluate runs the derivation unconditionally. Sources must be current.
func (n *node) evaluate() {
	n.recompute()
	for i, src := range n.sources {
		n.seen[i] = src.version
	}
	n.evaluated = true
	n.version++
	n.rt.countRecompute()
}

// addWatcher registers w and links the node into its sources if this is
// the node's first observer. The node is attached before w is recorded, so
// a derivation that panics on the first refresh leaves nothing behind and
// a later Watch attaches again.
func (n *node) addWatcher(w *watcher) {
	if !n.observed() {
		n.attach()
	}
	n.watchers = append(n.watchers, w)
}

func (n *node) removeWatcher(w *watcher) {
	for i, existing := range n.watchers {
		if existing == w {
			n.watchers = append(n.watchers[:i:i], n.watchers[i+1:]...)
			break
		}
	}
	if !n.observed() {
		n.detach()
	}
}

func (n *node) addSub(d *node) {
	if !n.observed() {
		n.attach()
	}
	n.subs = append(n.subs, d)
}

func (n *node) removeSub(d *node) {
	for i, existing := range n.subs {
		if existing == d {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			break
		}
	}
	if !n.observed() {
		n.detach()
	}
}

// attach links a newly observed computed into its sources. The value is
// refreshed first so the first notification compares against fresh state.
// If linking panics part way, the sources linked so far are released.
func (n *node) attach() {
	if n.kind != kindComputed {
		return
	}
	n.refresh()
	linked := 0
	defer func() {
		if linked < len(n.sources) {
			for _, src := range n.sources[:linked] {
				src.removeSub(n)
			}
		}
	}()
	for _, src := range n.sources {
		src.addSub(n)
		linked++
	}
}

// detach unlinks an unobserved computed from its sources, recursively
// releasing sources that were observed only through it.
func (n *node) detach() {
	if n.kind != kindComputed {
		return
	}
	for _, src := range n.sources {
		src.removeSub(n)
	}
}

// notify fires the node's live watchers and returns how many ran.
// The watcher list is snapshotted so that registrations made by a callback
// wait for the next batch, while releases take effect at once.
func (n *node) notify() int {
	if len(n.watchers) == 0 {
		return 0
	}
	ws := make([]*watcher, len(n.watchers))
	copy(ws, n.watchers)

	fired := 0
	for _, w := range ws {
		if !w.active {
			continue
		}
		w.fire()
		fired++
	}
	return fired
}
