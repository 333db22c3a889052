package gobound

import "iter"

// Vector is a fixed-capacity ordered container.
//
// Differences from a Go slice:
//   - capacity is fixed in NewVector and never changes
//   - storage is allocated once, up front; Push never allocates
//   - elements are never destroyed: Clear and Pop only move the length,
//     slots keep their old values until overwritten
//   - pointers from Ref stay valid for the life of the Vector
//
// The zero Vector has capacity 0.
type Vector[T any] struct {
	data []T
	n    int
}

// NewVector returns an empty Vector with room for exactly capacity elements.
// It panics when capacity is negative.
func NewVector[T any](capacity int) *Vector[T] {
	if capacity < 0 {
		panic("gobound: negative capacity")
	}
	return &Vector[T]{data: make([]T, capacity)}
}

// VectorOf returns a Vector of the given capacity holding elems in order.
func VectorOf[T any](capacity int, elems ...T) (*Vector[T], error) {
	if len(elems) > capacity {
		return nil, capacityErr("push", len(elems), capacity)
	}
	v := NewVector[T](capacity)
	v.n = copy(v.data, elems)
	return v, nil
}

func (v *Vector[T]) Len() int    { return v.n }
func (v *Vector[T]) Cap() int    { return len(v.data) }
func (v *Vector[T]) Empty() bool { return v.n == 0 }

// Push appends x. The Vector is unchanged when it is full.
func (v *Vector[T]) Push(x T) error {
	if v.n == len(v.data) {
		return capacityErr("push", v.n+1, len(v.data))
	}
	v.data[v.n] = x
	v.n++
	return nil
}

// Extend exposes the next slot, reset to the zero value, and returns it.
func (v *Vector[T]) Extend() (*T, error) {
	if v.n == len(v.data) {
		return nil, capacityErr("extend", v.n+1, len(v.data))
	}
	var zero T
	v.data[v.n] = zero
	v.n++
	return &v.data[v.n-1], nil
}

// Pop removes and returns the last element. The slot itself is left intact.
func (v *Vector[T]) Pop() (T, error) {
	if v.n == 0 {
		var zero T
		return zero, &Error{Op: "pop", Err: ErrUnderflow}
	}
	v.n--
	return v.data[v.n], nil
}

// At returns element i, failing when i is outside [0, Len()).
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.n {
		var zero T
		return zero, rangeErr("at", i, v.n)
	}
	return v.data[i], nil
}

// Ref returns a pointer to slot i without checking it against Len.
// Slots in [Len(), Cap()) hold whatever was last stored there.
func (v *Vector[T]) Ref(i int) *T { return &v.data[i] }

// Set overwrites element i, failing when i is outside [0, Len()).
func (v *Vector[T]) Set(i int, x T) error {
	if i < 0 || i >= v.n {
		return rangeErr("set", i, v.n)
	}
	v.data[i] = x
	return nil
}

// Resize changes the length. Shrinking only moves the length; growing resets
// the newly exposed slots to the zero value.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		return rangeErr("resize", n, v.n)
	}
	if n <= v.n {
		v.n = n
		return nil
	}
	if n > len(v.data) {
		return capacityErr("resize", n, len(v.data))
	}
	clear(v.data[v.n:n])
	v.n = n
	return nil
}

// Reserve reports whether n elements fit. It never allocates.
func (v *Vector[T]) Reserve(n int) error {
	if n > len(v.data) {
		return capacityErr("reserve", n, len(v.data))
	}
	return nil
}

// Clear sets the length to 0 without touching slot contents.
func (v *Vector[T]) Clear() { v.n = 0 }

// Slice returns the occupied elements. The slice is capacity-clipped so an
// append on it never writes into the Vector's spare slots.
func (v *Vector[T]) Slice() []T { return v.data[:v.n:v.n] }

// All iterates the occupied elements in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.n; i++ {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// Backward iterates the occupied elements from last to first.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.n - 1; i >= 0; i-- {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// elem satisfies boundedSeq.
func (v *Vector[T]) elem(i int) any { return v.data[i] }

// Equal reports whether a and b hold the same elements, regardless of capacity.
func Equal[T comparable](a, b *Vector[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is Equal with a caller-supplied element comparison.
func EqualFunc[T any](a, b *Vector[T], eq func(x, y T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.n; i++ {
		if !eq(a.data[i], b.data[i]) {
			return false
		}
	}
	return true
}
