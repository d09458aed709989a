package reactive

// Binding is a mutable reactive cell. The *Binding handle is shared: every
// copy of the pointer reads and writes the same cell.
type Binding[T any] struct {
	n     *node
	value T

	// equal, when set, suppresses propagation for writes equal to the
	// current value.
	equal func(a, b T) bool
}

// NewBinding creates a binding on the default runtime.
func NewBinding[T any](initial T) *Binding[T] {
	return NewBindingIn(Default(), initial)
}

// NewBindingIn creates a binding on rt.
func NewBindingIn[T any](rt *Runtime, initial T) *Binding[T] {
	if rt == nil {
		rt = Default()
	}
	return &Binding[T]{
		n:     newNode(rt, kindBinding, nil),
		value: initial,
	}
}

// Get returns a copy of the current value.
func (b *Binding[T]) Get() T {
	return b.value
}

// Set replaces the value and synchronously propagates the change to every
// observed dependent before returning.
//
// A panic in a derivation or watcher reaches the caller of the outermost
// Set. Writes that watchers queued earlier in that batch keep their new
// values, but their own batches are abandoned: their watchers are not
// notified, and dependents catch up on the next read or write.
func (b *Binding[T]) Set(value T) {
	if b.equal != nil && b.equal(b.value, value) {
		return
	}
	b.value = value
	b.n.version++
	b.n.rt.propagate(b.n)
}

// Update mutates the value in place through fn. Exactly one propagation
// runs after fn returns, however many times fn touched the value.
//
// fn works on a copy that is installed only once fn returns, so a panic in
// fn leaves the binding unchanged. Reference types inside T (slices, maps,
// pointers) still alias the installed value.
func (b *Binding[T]) Update(fn func(*T)) {
	next := b.value
	fn(&next)
	if b.equal != nil && b.equal(b.value, next) {
		return
	}
	b.value = next
	b.n.version++
	b.n.rt.propagate(b.n)
}

// Watch registers fn to run after every write to the binding.
func (b *Binding[T]) Watch(fn func(T)) *Guard {
	return watch(b.n, func() { fn(b.value) })
}

// WithEquals configures an equality function. Writes equal to the current
// value are then dropped without starting a batch.
func (b *Binding[T]) WithEquals(fn func(a, b T) bool) *Binding[T] {
	b.equal = fn
	return b
}

// Named attaches a label used in logs and propagation statistics.
func (b *Binding[T]) Named(label string) *Binding[T] {
	b.n.label = label
	return b
}

// ID returns the unique identifier of the binding.
func (b *Binding[T]) ID() uint64 {
	return b.n.id
}

// Runtime returns the runtime the binding propagates on.
func (b *Binding[T]) Runtime() *Runtime {
	return b.n.rt
}

func (b *Binding[T]) graphNode() *node { return b.n }
func (b *Binding[T]) currentAny() any  { return b.value }
func (b *Binding[T]) current() T       { return b.value }

var _ Signal[int] = (*Binding[int])(nil)
