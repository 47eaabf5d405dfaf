package parallel

import (
	"slices"
	"sync"
)

// ConcurrentMap is a string-keyed map guarded by a RWMutex.
type ConcurrentMap[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func NewConcurrentMap[V any]() *ConcurrentMap[V] {
	return &ConcurrentMap[V]{entries: map[string]V{}}
}

func (m *ConcurrentMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *ConcurrentMap[V]) Set(key string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = v
}

// Delete removes key and reports whether it was present.
func (m *ConcurrentMap[V]) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

// Update replaces the entry for key with fn(old, present) under a single
// write lock and returns the new value.
func (m *ConcurrentMap[V]) Update(key string, fn func(old V, present bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.entries[key]
	v := fn(old, ok)
	m.entries[key] = v
	return v
}

func (m *ConcurrentMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns the keys in sorted order.
func (m *ConcurrentMap[V]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Snapshot returns a copy of the entries.
func (m *ConcurrentMap[V]) Snapshot() map[string]V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]V, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// ConcurrentVector is a growable slice guarded by a RWMutex.
type ConcurrentVector[T any] struct {
	mu    sync.RWMutex
	items []T
}

func NewConcurrentVector[T any](items ...T) *ConcurrentVector[T] {
	return &ConcurrentVector[T]{items: slices.Clone(items)}
}

// Push appends v and returns its index.
func (c *ConcurrentVector[T]) Push(v T) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, v)
	return len(c.items) - 1
}

func (c *ConcurrentVector[T]) Get(i int) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, ErrIndexOutOfRange
	}
	return c.items[i], nil
}

func (c *ConcurrentVector[T]) Set(i int, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items[i] = v
	return nil
}

// Update replaces element i with fn(element) under a single write lock.
func (c *ConcurrentVector[T]) Update(i int, fn func(T) T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items[i] = fn(c.items[i])
	return nil
}

func (c *ConcurrentVector[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *ConcurrentVector[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}
