package gobound

import (
	"iter"
	"reflect"
	"sync"
)

// Iterable is a finite ordered collection. *Vector[E] and *String (as
// Iterable[byte]) satisfy it; SliceOf adapts a plain slice.
type Iterable[E any] interface {
	Len() int
	All() iter.Seq2[int, E]
}

type sliceIterable[E any] []E

func (s sliceIterable[E]) Len() int { return len(s) }

func (s sliceIterable[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, e := range s {
			if !yield(i, e) {
				return
			}
		}
	}
}

// SliceOf adapts s to Iterable.
func SliceOf[E any](s []E) Iterable[E] { return sliceIterable[E](s) }

// RightSize copies it into a new slice whose length and capacity both equal
// it.Len().
func RightSize[E any](it Iterable[E]) []E {
	out := make([]E, it.Len())
	for i, e := range it.All() {
		out[i] = e
	}
	return out
}

// Static is a write-once, process-lifetime slot holding the result of a
// producer. The producer runs at most once, on the first Get; its value, or its
// error, is returned by every later Get. Nothing is evicted or recomputed.
//
// Declare one Static per table, typically as a package-level variable:
//
//	var keywords = gobound.PromoteSpan[string](func() (*gobound.Vector[string], error) {
//		return gobound.VectorOf(3, "if", "else", "for")
//	})
//
// Get is safe for concurrent use.
type Static[V any] struct {
	get func() (V, error)
}

// Promote pins the result of producer in a new Static.
func Promote[V any](producer func() (V, error)) *Static[V] {
	return &Static[V]{get: sync.OnceValues(producer)}
}

// Get returns the pinned value, calling the producer on first use.
func (s *Static[V]) Get() (V, error) { return s.get() }

// MustGet is Get that panics on a producer error.
func (s *Static[V]) MustGet() V {
	v, err := s.get()
	if err != nil {
		panic(err)
	}
	return v
}

// Span is a read-only view over promoted storage.
type Span[E any] struct {
	data []E
}

func (s Span[E]) Len() int { return len(s.data) }

// At returns element i. It panics when i is out of range, like a slice index.
func (s Span[E]) At(i int) E { return s.data[i] }

// All iterates the elements in order.
func (s Span[E]) All() iter.Seq2[int, E] { return sliceIterable[E](s.data).All() }

// Clone returns a mutable copy of the elements.
func (s Span[E]) Clone() []E { return append([]E(nil), s.data...) }

// PromoteSpan pins a right-sized copy of the producer's collection and exposes
// it as a Span. The element type is usually given explicitly:
// PromoteSpan[float64](producer).
func PromoteSpan[E any, S Iterable[E]](producer func() (S, error)) *Static[Span[E]] {
	return Promote(func() (Span[E], error) {
		it, err := producer()
		if err != nil {
			return Span[E]{}, err
		}
		return Span[E]{data: RightSize[E](it)}, nil
	})
}

// StringLike is what PromoteString accepts.
type StringLike interface {
	~string | ~[]byte | *String
}

// PromoteString pins the producer's text as an immutable Go string.
func PromoteString[S StringLike](producer func() (S, error)) *Static[string] {
	return Promote(func() (string, error) {
		s, err := producer()
		if err != nil {
			return "", err
		}
		return stringOf(s), nil
	})
}

func stringOf(x any) string {
	switch t := x.(type) {
	case *String:
		return t.String()
	case string:
		return t
	case []byte:
		return string(t)
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return string(rv.Bytes())
}

// PromoteMinimized pins the minimized form of the producer's structure.
func PromoteMinimized[T any](bound int, producer func() (T, error)) *Static[Value] {
	return Promote(func() (Value, error) { return MinimizeFunc(bound, producer) })
}
