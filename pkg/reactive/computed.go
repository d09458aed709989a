package reactive

// Computed is a read-only signal derived from upstream signals.
//
// While observed, a computed node is recomputed eagerly, once per batch
// that reaches it. While unobserved, Get evaluates it on demand, reusing
// the cached value when no source changed since the last evaluation.
type Computed[T any] struct {
	n     *node
	value T
}

func newComputed[T any](sources []Source, derive func() T) *Computed[T] {
	nodes := nodesOf(sources...)
	c := &Computed[T]{}
	c.n = newNode(runtimeOf(nodes), kindComputed, nodes)
	c.n.recompute = func() {
		// Compute fully before installing.
		v := derive()
		c.value = v
	}
	return c
}

// Get returns the current derived value, evaluating it if any source
// changed since it was last computed.
func (c *Computed[T]) Get() T {
	c.n.refresh()
	return c.value
}

// Watch subscribes fn. The first watcher links the computed (and any
// unobserved computed sources) into the graph.
func (c *Computed[T]) Watch(fn func(T)) *Guard {
	return watch(c.n, func() { fn(c.value) })
}

// Named attaches a label used in logs.
func (c *Computed[T]) Named(label string) *Computed[T] {
	c.n.label = label
	return c
}

// ID returns the unique identifier of the computed node.
func (c *Computed[T]) ID() uint64 {
	return c.n.id
}

// Height returns the node's dependency depth. Bindings are height 0.
func (c *Computed[T]) Height() int {
	return c.n.height
}

// Observed reports whether the node is currently linked into the graph.
func (c *Computed[T]) Observed() bool {
	return c.n.observed()
}

func (c *Computed[T]) graphNode() *node { return c.n }
func (c *Computed[T]) currentAny() any  { return c.value }
func (c *Computed[T]) current() T       { return c.value }

var _ Signal[int] = (*Computed[int])(nil)

// Pair is the value of a Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the value of a Zip3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Map derives a signal by applying f to every value of src. f is not
// called until the result is read or watched.
func Map[T, U any](src Signal[T], f func(T) U) *Computed[U] {
	return newComputed([]Source{src}, func() U {
		return f(src.current())
	})
}

// Zip combines two signals. A single batch that updates both a and b
// produces exactly one new pair.
func Zip[A, B any](a Signal[A], b Signal[B]) *Computed[Pair[A, B]] {
	return newComputed([]Source{a, b}, func() Pair[A, B] {
		return Pair[A, B]{First: a.current(), Second: b.current()}
	})
}

// Zip3 combines three signals.
func Zip3[A, B, C any](a Signal[A], b Signal[B], c Signal[C]) *Computed[Triple[A, B, C]] {
	return newComputed([]Source{a, b, c}, func() Triple[A, B, C] {
		return Triple[A, B, C]{First: a.current(), Second: b.current(), Third: c.current()}
	})
}

// Combine derives a signal from any number of same-typed sources.
// f receives the source values in argument order.
func Combine[T, U any](f func([]T) U, sources ...Signal[T]) *Computed[U] {
	srcs := make([]Source, len(sources))
	for i, s := range sources {
		srcs[i] = s
	}
	return newComputed(srcs, func() U {
		values := make([]T, len(sources))
		for i, s := range sources {
			values[i] = s.current()
		}
		return f(values)
	})
}
