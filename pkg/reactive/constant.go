package reactive

// Constant is a signal whose value never changes.
type Constant[T any] struct {
	value T
}

// NewConstant wraps value as a signal.
func NewConstant[T any](value T) *Constant[T] {
	return &Constant[T]{value: value}
}

// Get returns the wrapped value.
func (c *Constant[T]) Get() T {
	return c.value
}

// Watch never invokes fn. The returned guard is already inactive.
func (c *Constant[T]) Watch(fn func(T)) *Guard {
	return &Guard{}
}

func (c *Constant[T]) graphNode() *node { return nil }
func (c *Constant[T]) currentAny() any  { return c.value }
func (c *Constant[T]) current() T       { return c.value }

var _ Signal[int] = (*Constant[int])(nil)
