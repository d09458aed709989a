// Package env provides an immutable, scoped environment for threading
// default policies down a tree without global mutable state.
//
// An Environment is a chain of scopes. With returns a child scope holding
// one override; the parent is never modified, so sibling subtrees can carry
// different values while sharing the rest of the chain.
//
//	base := env.New()
//	dense := env.With(base, layout.SpacingKey, 4.0)
//	spacing := env.Value(dense, layout.SpacingKey) // 4
package env

// keyID identifies a key independently of its type parameter.
type keyID struct {
	name string
	seq  uint64
}

var keySeq uint64

// Key is a typed environment key with a default value. Create keys with
// NewKey at package level; two keys with the same name are still distinct.
type Key[T any] struct {
	id  *keyID
	def T
}

// NewKey declares a key. Not safe for concurrent use; call it from package
// initialization.
func NewKey[T any](name string, def T) Key[T] {
	keySeq++
	return Key[T]{id: &keyID{name: name, seq: keySeq}, def: def}
}

// Name returns the key's name.
func (k Key[T]) Name() string {
	if k.id == nil {
		return ""
	}
	return k.id.name
}

// Default returns the key's default value.
func (k Key[T]) Default() T {
	return k.def
}

// Environment is one immutable scope.
type Environment struct {
	parent *Environment
	key    *keyID
	value  any
	depth  int
}

// New returns an empty root environment.
func New() *Environment {
	return &Environment{}
}

// With returns a child scope in which key resolves to value.
func With[T any](e *Environment, key Key[T], value T) *Environment {
	if key.id == nil {
		panic("env: zero Key")
	}
	if e == nil {
		e = New()
	}
	return &Environment{parent: e, key: key.id, value: value, depth: e.depth + 1}
}

// Lookup returns the innermost value bound to key and whether one was found.
// A nil environment holds no bindings.
func Lookup[T any](e *Environment, key Key[T]) (T, bool) {
	for s := e; s != nil; s = s.parent {
		if s.key == key.id && s.key != nil {
			return s.value.(T), true
		}
	}
	var zero T
	return zero, false
}

// Value returns the innermost value bound to key, or the key's default.
func Value[T any](e *Environment, key Key[T]) T {
	if v, ok := Lookup(e, key); ok {
		return v
	}
	return key.def
}

// Depth returns the number of overrides in the chain.
func (e *Environment) Depth() int {
	if e == nil {
		return 0
	}
	return e.depth
}
