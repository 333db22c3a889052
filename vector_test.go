package gobound_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/reoring/gobound"
)

func TestVector_StartsEmpty(t *testing.T) {
	v := gobound.NewVector[int](10)
	if !v.Empty() || v.Len() != 0 || v.Cap() != 10 {
		t.Fatalf("new vector: len=%d cap=%d empty=%v", v.Len(), v.Cap(), v.Empty())
	}
}

func TestVector_PushKeepsOrder(t *testing.T) {
	src := []int{5, 10, 15, 20}
	v := gobound.NewVector[int](10)
	for _, x := range src {
		if err := v.Push(x); err != nil {
			t.Fatalf("push %d: %v", x, err)
		}
	}
	if v.Len() != len(src) {
		t.Fatalf("len=%d want %d", v.Len(), len(src))
	}
	var got []int
	for _, x := range v.All() {
		got = append(got, x)
	}
	if !slices.Equal(got, src) {
		t.Fatalf("iteration %v want %v", got, src)
	}
}

func TestVector_PushBeyondCapacity(t *testing.T) {
	v, err := gobound.VectorOf(3, 1, 2, 3)
	if err != nil {
		t.Fatalf("VectorOf: %v", err)
	}
	err = v.Push(4)
	if !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("failed push changed length to %d", v.Len())
	}
	if _, err := v.Extend(); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("extend: want ErrCapacityExceeded, got %v", err)
	}
	if _, err := gobound.VectorOf(1, 1, 2); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("VectorOf overflow: got %v", err)
	}
}

func TestVector_PopUnderflow(t *testing.T) {
	v, _ := gobound.VectorOf(4, 7)
	x, err := v.Pop()
	if err != nil || x != 7 {
		t.Fatalf("pop = %d, %v", x, err)
	}
	if _, err := v.Pop(); !errors.Is(err, gobound.ErrUnderflow) {
		t.Fatalf("want ErrUnderflow, got %v", err)
	}
}

func TestVector_AtChecksLength(t *testing.T) {
	v, _ := gobound.VectorOf(8, 1, 2, 3)
	if x, err := v.At(2); err != nil || x != 3 {
		t.Fatalf("At(2) = %d, %v", x, err)
	}
	for _, i := range []int{3, 7, -1} {
		if _, err := v.At(i); !errors.Is(err, gobound.ErrIndexOutOfRange) {
			t.Fatalf("At(%d): want ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if err := v.Set(3, 9); !errors.Is(err, gobound.ErrIndexOutOfRange) {
		t.Fatalf("Set(3): got %v", err)
	}
}

func TestVector_ClearKeepsSlots(t *testing.T) {
	v, _ := gobound.VectorOf(4, 1, 2, 3)
	p := v.Ref(1)
	v.Clear()
	if v.Len() != 0 {
		t.Fatalf("len after clear = %d", v.Len())
	}
	if *v.Ref(1) != 2 || p != v.Ref(1) {
		t.Fatalf("clear destroyed slot contents")
	}
}

func TestVector_Resize(t *testing.T) {
	v, _ := gobound.VectorOf(5, 1, 2, 3)
	if err := v.Resize(1); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if *v.Ref(2) != 3 {
		t.Fatalf("shrink must not touch slots")
	}
	if err := v.Resize(4); err != nil {
		t.Fatalf("grow: %v", err)
	}
	if got := v.Slice(); !slices.Equal(got, []int{1, 0, 0, 0}) {
		t.Fatalf("grown slots must be zero, got %v", got)
	}
	if err := v.Resize(6); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("grow past cap: got %v", err)
	}
	if v.Len() != 4 {
		t.Fatalf("failed resize changed length to %d", v.Len())
	}
	if err := v.Reserve(5); err != nil {
		t.Fatalf("reserve within cap: %v", err)
	}
	if err := v.Reserve(6); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("reserve past cap: got %v", err)
	}
}

func TestVector_Backward(t *testing.T) {
	reverse := func(in *gobound.Vector[int]) *gobound.Vector[int] {
		out := gobound.NewVector[int](10)
		for _, x := range in.Backward() {
			_ = out.Push(x)
		}
		return out
	}
	empty := gobound.NewVector[int](10)
	if !gobound.Equal(reverse(empty), gobound.NewVector[int](0)) {
		t.Fatalf("reverse of empty must be empty")
	}
	in, _ := gobound.VectorOf(10, 1, 2, 3, 4)
	want, _ := gobound.VectorOf(4, 4, 3, 2, 1)
	if !gobound.Equal(reverse(in), want) {
		t.Fatalf("reverse = %v", reverse(in).Slice())
	}
}

func TestVector_EqualIgnoresCapacity(t *testing.T) {
	a, _ := gobound.VectorOf(16, 1, 2)
	b, _ := gobound.VectorOf(2, 1, 2)
	c, _ := gobound.VectorOf(2, 1, 3)
	if !gobound.Equal(a, b) {
		t.Fatalf("equal content with different capacity must compare equal")
	}
	if gobound.Equal(a, c) {
		t.Fatalf("different content compared equal")
	}
}

func TestVector_SliceIsClipped(t *testing.T) {
	v, _ := gobound.VectorOf(4, 1, 2)
	s := v.Slice()
	if cap(s) != 2 {
		t.Fatalf("slice cap = %d, want 2", cap(s))
	}
	_ = append(s, 99)
	if *v.Ref(2) == 99 {
		t.Fatalf("append through Slice wrote into a spare slot")
	}
}

func TestVector_ExtendReturnsZeroedSlot(t *testing.T) {
	v, _ := gobound.VectorOf(2, [2]int{1, 2})
	_, _ = v.Pop()
	p, err := v.Extend()
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if *p != ([2]int{}) {
		t.Fatalf("extend must reset the slot, got %v", *p)
	}
	p[1] = 5
	if x, _ := v.At(0); x != ([2]int{0, 5}) {
		t.Fatalf("extend pointer does not alias the slot")
	}
}

func TestVector_NoAllocations(t *testing.T) {
	v := gobound.NewVector[int](64)
	allocs := testing.AllocsPerRun(100, func() {
		v.Clear()
		for i := 0; i < 64; i++ {
			_ = v.Push(i)
		}
		for range 32 {
			_, _ = v.Pop()
		}
		_ = v.Resize(60)
	})
	if allocs > 0 {
		t.Errorf("Push/Pop/Resize allocs = %v; want 0", allocs)
	}
}
