// Package storage keeps values derived from a run handle so they are computed
// at most once per handle.
package storage

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc computes the value for a key on a cache miss.
type LoadFunc[V any] func() (V, error)

// Memo caches one value per key. Concurrent misses for the same key share a
// single LoadFunc call. Failed loads are not cached, and neither are loads
// that were still running when Invalidate or Reset was called.
type Memo[V any] struct {
	mu     sync.RWMutex
	values map[string]V
	gen    uint64
	group  singleflight.Group
}

// NewMemo returns an empty Memo.
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{
		values: map[string]V{},
	}
}

// Get returns the cached value for key, calling load on a miss.
func (m *Memo[V]) Get(key string, load LoadFunc[V]) (V, error) {
	if v, ok := m.Peek(key); ok {
		return v, nil
	}

	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	res, err, _ := m.group.Do(strconv.FormatUint(gen, 10)+"/"+key, func() (any, error) {
		if v, ok := m.Peek(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		if m.gen == gen {
			m.values[key] = v
		}
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Peek returns the cached value for key without loading it.
func (m *Memo[V]) Peek(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok
}

// Invalidate drops the value cached for key.
func (m *Memo[V]) Invalidate(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.gen++
	m.mu.Unlock()
}

// Reset drops every cached value.
func (m *Memo[V]) Reset() {
	m.mu.Lock()
	m.values = map[string]V{}
	m.gen++
	m.mu.Unlock()
}

// Len reports the number of cached values.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}
