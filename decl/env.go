// betlang/decl/env.go
package decl

import (
	"fmt"
	"slices"
)

// Env[T] is one scope frame.  It holds the bindings for identifiers (types
// during checking, values during evaluation) and a pointer to the enclosing
// frame, so nested scopes share their ancestors instead of copying them.
// Lookup walks outward to the root; extending never mutates the parent.
//
// A frame is ordinary heap memory: once nothing refers to it (no closure
// captured it and no evaluation is still using it) it is reclaimed.  Frames
// are immutable after construction, so concurrent readers need no locking.
type Env[T any] struct {
	vars  map[Symbol]T
	outer *Env[T]
}

// NewEnv[T] creates a fresh root environment.
func NewEnv[T any]() *Env[T] {
	return &Env[T]{}
}

func (e *Env[T]) child(vars map[Symbol]T) *Env[T] {
	return &Env[T]{vars: vars, outer: e}
}

// Get retrieves a value by name.  It checks the current frame first,
// then walks the enclosing frames.
func (e *Env[T]) Get(name Symbol) (out T, found bool) {
	for f := e; f != nil; f = f.outer {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return
}

// Has reports whether name is bound anywhere in the chain.
func (e *Env[T]) Has(name Symbol) bool {
	_, ok := e.Get(name)
	return ok
}

// Set binds name in this frame.  Only for frames that are still being
// populated: the root while registering builtins, or a frame created for a
// recursive binding before anything else can observe it.
func (e *Env[T]) Set(name Symbol, value T) {
	if e.vars == nil {
		e.vars = make(map[Symbol]T)
	}
	e.vars[name] = value
}

// Push creates an empty child frame.
func (e *Env[T]) Push() *Env[T] {
	return e.child(nil)
}

// Bind creates a child frame holding a single binding.
func (e *Env[T]) Bind(name Symbol, value T) *Env[T] {
	return e.child(map[Symbol]T{name: value})
}

// Extend creates a child frame holding all of kvpairs.  The map is copied.
func (e *Env[T]) Extend(kvpairs map[Symbol]T) *Env[T] {
	vars := make(map[Symbol]T, len(kvpairs))
	for k, v := range kvpairs {
		vars[k] = v
	}
	return e.child(vars)
}

// Parent returns the enclosing frame, or nil at the root.
func (e *Env[T]) Parent() *Env[T] { return e.outer }

// Depth is the number of frames between this one and the root.
func (e *Env[T]) Depth() (depth int) {
	for f := e.outer; f != nil; f = f.outer {
		depth++
	}
	return
}

// Keys returns the names bound in this frame (not including parents), sorted.
func (e *Env[T]) Keys() []Symbol {
	keys := make([]Symbol, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All returns every visible binding, with inner frames shadowing outer ones.
func (e *Env[T]) All() map[Symbol]T {
	result := make(map[Symbol]T)
	for f := e; f != nil; f = f.outer {
		for k, v := range f.vars {
			if _, shadowed := result[k]; !shadowed {
				result[k] = v
			}
		}
	}
	return result
}

// String representation for debugging
func (e *Env[T]) String() string {
	return fmt.Sprintf("Env[T]{keys: %v, depth: %d}", e.Keys(), e.Depth())
}
