package gobound_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/gobound"
)

func TestStackify_ScalarsUnchanged(t *testing.T) {
	type point struct{ X, Y int }
	for _, in := range []any{42, 3.5, true, json.Number("7"), point{1, 2}, nil} {
		v, err := gobound.Stackify(8, in)
		if err != nil {
			t.Fatalf("stackify %v: %v", in, err)
		}
		if v.Kind() != gobound.KindScalar || v.Scalar() != in {
			t.Fatalf("stackify %v = %v", in, v)
		}
	}
}

func TestStackify_UniformBound(t *testing.T) {
	in := []any{"ab", []int{1, 2}, gobound.Pairs{{Key: "k", Value: "v"}}}
	v, err := gobound.Stackify(16, in)
	if err != nil {
		t.Fatalf("stackify: %v", err)
	}
	if v.Cap() != 16 || v.Len() != 3 {
		t.Fatalf("outer len=%d cap=%d", v.Len(), v.Cap())
	}
	for i, e := range v.Sequence().All() {
		if e.Cap() != 16 {
			t.Fatalf("element %d cap = %d, want 16", i, e.Cap())
		}
	}
	want := []any{"ab", []any{1, 2}, gobound.Pairs{{Key: "k", Value: "v"}}}
	if diff := cmp.Diff(want, v.Interface()); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestStackify_NeverGrowsBoundedInput(t *testing.T) {
	vec, _ := gobound.VectorOf(16, 1, 2, 3, 4, 5)
	v, err := gobound.Stackify(32, vec)
	if err != nil {
		t.Fatalf("stackify: %v", err)
	}
	if v.Len() != 5 || v.Cap() != 16 {
		t.Fatalf("len=%d cap=%d, want 5/16", v.Len(), v.Cap())
	}
	again, err := gobound.Stackify(32, v)
	if err != nil || !again.Equal(v) || again.Cap() != 16 {
		t.Fatalf("restackify changed the value: %v %v", again, err)
	}
}

func TestStackify_RejectsOversizedLevels(t *testing.T) {
	cases := []struct {
		name string
		in   any
		path string
	}{
		{"sequence", []int{1, 2, 3, 4, 5}, "/"},
		{"nested", gobound.Pairs{{Key: "a", Value: []int{1, 2, 3, 4, 5}}}, "/a"},
		{"text", []string{"ok", "abcd"}, "/1"},
		{"go map", map[string]any{"x": map[int]int{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}}, "/x"},
		{"bounded", func() any { v, _ := gobound.VectorOf(16, 1, 2, 3, 4, 5); return v }(), "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gobound.Stackify(4, tc.in)
			if !errors.Is(err, gobound.ErrCapacityExceeded) {
				t.Fatalf("want ErrCapacityExceeded, got %v", err)
			}
			e, ok := gobound.AsError(err)
			if !ok || e.Path != tc.path || e.Op != "stackify" {
				t.Fatalf("error = %#v, want path %q", e, tc.path)
			}
		})
	}
}

func TestStackify_GoMapsAreSorted(t *testing.T) {
	v, err := gobound.Stackify(8, map[int]string{3: "c", 1: "a", 2: "b"})
	if err != nil {
		t.Fatalf("stackify: %v", err)
	}
	want := gobound.Pairs{{Key: 1, Value: "a"}, {Key: 2, Value: "b"}, {Key: 3, Value: "c"}}
	if diff := cmp.Diff(want, v.Interface()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestStackify_PairsKeepDuplicates(t *testing.T) {
	in := gobound.Pairs{{Key: "a", Value: 1}, {Key: "a", Value: 2}}
	v, err := gobound.Stackify(4, in)
	if err != nil {
		t.Fatalf("stackify: %v", err)
	}
	if v.Len() != 2 {
		t.Fatalf("entries = %d, want 2", v.Len())
	}
}

func TestStackify_MaxDepth(t *testing.T) {
	in := []any{[]any{[]any{1}}}
	if _, err := gobound.StackifyWith(in, gobound.Options{Bound: 4, MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 within limit: %v", err)
	}
	_, err := gobound.StackifyWith(in, gobound.Options{Bound: 4, MaxDepth: 2})
	if !errors.Is(err, gobound.ErrTooDeep) {
		t.Fatalf("want ErrTooDeep, got %v", err)
	}
	if e, _ := gobound.AsError(err); e.Path != "/0/0" {
		t.Fatalf("path = %q", e.Path)
	}
}

func TestStackify_DefaultBound(t *testing.T) {
	v, err := gobound.StackifyWith([]int{1}, gobound.Options{})
	if err != nil {
		t.Fatalf("stackify: %v", err)
	}
	if v.Cap() != gobound.DefaultBound {
		t.Fatalf("cap = %d, want %d", v.Cap(), gobound.DefaultBound)
	}
}

func TestStackify_ExplicitBoundIsExact(t *testing.T) {
	v, err := gobound.Stackify(0, []int{})
	if err != nil || v.Cap() != 0 {
		t.Fatalf("empty sequence at bound 0: cap=%d err=%v", v.Cap(), err)
	}
	if v, err := gobound.Stackify(0, 42); err != nil || v.Scalar() != 42 {
		t.Fatalf("scalar at bound 0: %v, %v", v, err)
	}
	for _, in := range []any{[]int{1, 2, 3}, "", map[string]int{"a": 1}} {
		if _, err := gobound.Stackify(0, in); !errors.Is(err, gobound.ErrCapacityExceeded) {
			t.Fatalf("stackify(0, %v): want ErrCapacityExceeded, got %v", in, err)
		}
	}
	if _, err := gobound.Minimize(0, []int{1}); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("minimize(0): want ErrCapacityExceeded, got %v", err)
	}
}

func TestStackify_NegativeBound(t *testing.T) {
	if _, err := gobound.Stackify(-5, "hello"); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("stackify(-5): want ErrCapacityExceeded, got %v", err)
	}
	if _, err := gobound.Minimize(-1, []int{}); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("minimize(-1): want ErrCapacityExceeded, got %v", err)
	}
	if _, err := gobound.MinimizeWith([]int{}, gobound.Options{Bound: -1}); !errors.Is(err, gobound.ErrCapacityExceeded) {
		t.Fatalf("minimize with Bound -1: want ErrCapacityExceeded, got %v", err)
	}
}
