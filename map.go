package gobound

import "iter"

// Entry is one key/value pair of a Map.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered association list over a fixed-capacity Vector of
// entries. Keys are found by linear scan; uniqueness holds as long as entries
// are only added through GetOrInsert and TryInsert.
//
// Lookup is O(Len). Maps are meant for small static tables where compactness
// and stable iteration order matter more than lookup speed.
type Map[K, V any] struct {
	entries Vector[Entry[K, V]]
	eq      func(a, b K) bool
}

// NewMap returns an empty Map for comparable keys.
func NewMap[K comparable, V any](capacity int) *Map[K, V] {
	return NewMapFunc[K, V](capacity, func(a, b K) bool { return a == b })
}

// NewMapFunc returns an empty Map whose keys are compared with eq.
func NewMapFunc[K, V any](capacity int, eq func(a, b K) bool) *Map[K, V] {
	return &Map[K, V]{entries: *NewVector[Entry[K, V]](capacity), eq: eq}
}

func (m *Map[K, V]) Len() int { return m.entries.n }
func (m *Map[K, V]) Cap() int { return len(m.entries.data) }

func (m *Map[K, V]) index(key K) int {
	for i := 0; i < m.entries.n; i++ {
		if m.eq(m.entries.data[i].Key, key) {
			return i
		}
	}
	return -1
}

// Find returns the value stored under key.
func (m *Map[K, V]) Find(key K) (*V, bool) {
	if i := m.index(key); i >= 0 {
		return &m.entries.data[i].Value, true
	}
	return nil, false
}

// At returns a copy of the value stored under key.
func (m *Map[K, V]) At(key K) (V, error) {
	if p, ok := m.Find(key); ok {
		return *p, nil
	}
	var zero V
	return zero, &Error{Op: "at", Err: ErrKeyNotFound}
}

// GetOrInsert returns the value stored under key, appending key with a zero
// value first when it is absent.
func (m *Map[K, V]) GetOrInsert(key K) (*V, error) {
	if p, ok := m.Find(key); ok {
		return p, nil
	}
	e, err := m.entries.Extend()
	if err != nil {
		return nil, err
	}
	e.Key = key
	return &e.Value, nil
}

// TryInsert stores val under key unless key is already present. It reports
// whether the entry was inserted and returns the value now stored under key.
func (m *Map[K, V]) TryInsert(key K, val V) (*V, bool, error) {
	if p, ok := m.Find(key); ok {
		return p, false, nil
	}
	if err := m.entries.Push(Entry[K, V]{Key: key, Value: val}); err != nil {
		return nil, false, err
	}
	return &m.entries.data[m.entries.n-1].Value, true, nil
}

// Clear removes every entry without touching slot contents.
func (m *Map[K, V]) Clear() { m.entries.Clear() }

// Entries returns the entries in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] { return m.entries.Slice() }

// All iterates entries in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := 0; i < m.entries.n; i++ {
			e := &m.entries.data[i]
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// entry satisfies boundedMap.
func (m *Map[K, V]) entry(i int) (any, any) {
	e := &m.entries.data[i]
	return e.Key, e.Value
}
