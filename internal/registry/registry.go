// Package registry maps stable string keys to component constructors.
// Registries are built by explicit lists at startup and handed to whoever
// needs them; there is no package-level registry.
package registry

import (
	"fmt"
	"sort"

	"multilateration-sim/internal/common"
)

// Constructor builds a component from named parameters.
type Constructor[T any] func(p Params) (T, error)

// Registry maps keys to constructors of T.
type Registry[T any] struct {
	kind  string
	ctors map[string]Constructor[T]
}

// New creates an empty registry. kind names the component family in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, ctors: make(map[string]Constructor[T])}
}

// Register adds a constructor under key. Keys must be unique and non-empty.
func (r *Registry[T]) Register(key string, ctor Constructor[T]) error {
	if key == "" {
		return fmt.Errorf("%w: empty %s key", common.ErrConfiguration, r.kind)
	}
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor for %s %q", common.ErrConfiguration, r.kind, key)
	}
	if _, exists := r.ctors[key]; exists {
		return fmt.Errorf("%w: %s %q already registered", common.ErrConfiguration, r.kind, key)
	}
	r.ctors[key] = ctor
	return nil
}

// MustRegister is Register for explicit startup lists; it panics on error.
func (r *Registry[T]) MustRegister(key string, ctor Constructor[T]) {
	if err := r.Register(key, ctor); err != nil {
		panic(err)
	}
}

// Build constructs the component registered under key.
func (r *Registry[T]) Build(key string, p Params) (T, error) {
	ctor, ok := r.ctors[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: unknown %s %q (known: %v)", common.ErrConfiguration, r.kind, key, r.Keys())
	}
	v, err := ctor(p)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("building %s %q: %w", r.kind, key, err)
	}
	return v, nil
}

// Has reports whether key is registered.
func (r *Registry[T]) Has(key string) bool {
	_, ok := r.ctors[key]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry[T]) Keys() []string {
	keys := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
