package gobound

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// boundedSeq is satisfied by every *Vector[T].
type boundedSeq interface {
	Len() int
	Cap() int
	elem(i int) any
}

// boundedMap is satisfied by every *Map[K, V].
type boundedMap interface {
	Len() int
	Cap() int
	entry(i int) (any, any)
}

// Stackify converts a nested dynamic value into its bounded equivalent, using
// bound as the capacity of every sequence, text and map it creates.
//
// Inputs are mapped as follows:
//   - string and []byte become text of capacity bound (content at most bound-1)
//   - slices and arrays become sequences of capacity bound
//   - Pairs and Go maps become maps of capacity bound; Go map keys are
//     sorted first, so the result does not depend on map iteration order
//   - *Vector, *String, *Map and container Values keep their own capacity
//   - anything else is a scalar and is kept unchanged
//
// A level holding more than bound elements fails with ErrCapacityExceeded; it
// is never truncated. Already-bounded inputs are checked against bound as well.
//
// bound is used as given: zero admits only empty sequences and maps, and a
// negative bound fails with ErrCapacityExceeded.
func Stackify(bound int, v any) (Value, error) {
	return stackify(v, bound, 0)
}

// StackifyWith is Stackify with full options. A zero Options.Bound means
// DefaultBound.
func StackifyWith(v any, opt Options) (Value, error) {
	return stackify(v, opt.bound(), opt.MaxDepth)
}

func stackify(v any, bound, maxDepth int) (Value, error) {
	if bound < 0 {
		return Value{}, &Error{Op: "stackify", Path: "/", Cap: bound, Err: ErrCapacityExceeded}
	}
	s := stackifier{bound: bound, maxDepth: maxDepth}
	out, err := s.value(v, "", 1)
	if err != nil {
		Logger().Debug("stackify failed", zap.Int("bound", s.bound), zap.Error(err))
		return Value{}, err
	}
	Logger().Debug("stackify", zap.Int("bound", s.bound), zap.Stringer("kind", out.Kind()), zap.Int("len", out.Len()))
	return out, nil
}

type stackifier struct {
	bound    int
	maxDepth int
}

// enter checks the depth of a sequence or map. Scalars and text do not nest.
func (s *stackifier) enter(path string, depth int) error {
	if s.maxDepth > 0 && depth > s.maxDepth {
		return &Error{Op: "stackify", Path: normalizePath(path), Len: depth, Cap: s.maxDepth, Err: ErrTooDeep}
	}
	return nil
}

func (s *stackifier) value(x any, path string, depth int) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		switch t.kind {
		case KindText:
			return s.bounded(t.text, path)
		case KindSequence:
			return s.seq(t.seq, t.seq.Cap(), path, depth)
		case KindMap:
			return s.dict(t.dict, t.dict.Cap(), path, depth)
		default:
			return t, nil
		}
	case *String:
		return s.bounded(t, path)
	case string:
		return s.text(t, path)
	case []byte:
		return s.text(string(t), path)
	case Pairs:
		return s.pairs(t, path, depth)
	case boundedMap:
		return s.dict(t, t.Cap(), path, depth)
	case boundedSeq:
		return s.seq(t, t.Cap(), path, depth)
	}
	return s.reflected(x, path, depth)
}

func (s *stackifier) text(str string, path string) (Value, error) {
	if len(str)+1 > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: len(str) + 1, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out, err := StringOf(s.bound, str)
	if err != nil {
		return Value{}, withPath(err, "stackify", path)
	}
	return TextValue(out), nil
}

// bounded copies an existing String at its own capacity.
func (s *stackifier) bounded(str *String, path string) (Value, error) {
	if str.Len()+1 > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: str.Len() + 1, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out, err := StringOf(str.Cap(), str.String())
	if err != nil {
		return Value{}, withPath(err, "stackify", path)
	}
	return TextValue(out), nil
}

func (s *stackifier) seq(src boundedSeq, capacity int, path string, depth int) (Value, error) {
	if err := s.enter(path, depth); err != nil {
		return Value{}, err
	}
	n := src.Len()
	if n > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: n, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out := NewVector[Value](capacity)
	for i := 0; i < n; i++ {
		e, err := s.value(src.elem(i), indexPointer(path, i), depth+1)
		if err != nil {
			return Value{}, err
		}
		if err := out.Push(e); err != nil {
			return Value{}, withPath(err, "stackify", path)
		}
	}
	return SeqValue(out), nil
}

func (s *stackifier) dict(src boundedMap, capacity int, path string, depth int) (Value, error) {
	if err := s.enter(path, depth); err != nil {
		return Value{}, err
	}
	n := src.Len()
	if n > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: n, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out := NewValueMap(capacity)
	for i := 0; i < n; i++ {
		k, v := src.entry(i)
		if err := s.entry(out, k, v, path, depth); err != nil {
			return Value{}, err
		}
	}
	return MapValue(out), nil
}

func (s *stackifier) pairs(src Pairs, path string, depth int) (Value, error) {
	if err := s.enter(path, depth); err != nil {
		return Value{}, err
	}
	if len(src) > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: len(src), Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out := NewValueMap(s.bound)
	for _, p := range src {
		if err := s.entry(out, p.Key, p.Value, path, depth); err != nil {
			return Value{}, err
		}
	}
	return MapValue(out), nil
}

// entry appends one converted pair. Entries are copied as they come, so a
// source carrying duplicate keys keeps them.
func (s *stackifier) entry(out *Map[Value, Value], key, val any, path string, depth int) error {
	at := keyPointer(path, key)
	k, err := s.value(key, at, depth+1)
	if err != nil {
		return err
	}
	v, err := s.value(val, at, depth+1)
	if err != nil {
		return err
	}
	if err := out.entries.Push(Entry[Value, Value]{Key: k, Value: v}); err != nil {
		return withPath(err, "stackify", path)
	}
	return nil
}

func (s *stackifier) reflected(x any, path string, depth int) (Value, error) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.String:
		return s.text(rv.String(), path)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return s.text(string(rv.Bytes()), path)
		}
		if rv.IsNil() {
			return SeqValue(NewVector[Value](s.bound)), nil
		}
		return s.reflectedSeq(rv, path, depth)
	case reflect.Array:
		return s.reflectedSeq(rv, path, depth)
	case reflect.Map:
		return s.reflectedMap(rv, path, depth)
	default:
		return Scalar(x), nil
	}
}

func (s *stackifier) reflectedSeq(rv reflect.Value, path string, depth int) (Value, error) {
	if err := s.enter(path, depth); err != nil {
		return Value{}, err
	}
	n := rv.Len()
	if n > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: n, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	out := NewVector[Value](s.bound)
	for i := 0; i < n; i++ {
		e, err := s.value(rv.Index(i).Interface(), indexPointer(path, i), depth+1)
		if err != nil {
			return Value{}, err
		}
		out.data[i] = e
	}
	out.n = n
	return SeqValue(out), nil
}

func (s *stackifier) reflectedMap(rv reflect.Value, path string, depth int) (Value, error) {
	if err := s.enter(path, depth); err != nil {
		return Value{}, err
	}
	n := rv.Len()
	if n > s.bound {
		return Value{}, &Error{Op: "stackify", Path: normalizePath(path), Len: n, Cap: s.bound, Err: ErrCapacityExceeded}
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	out := NewValueMap(s.bound)
	for _, k := range keys {
		if err := s.entry(out, k.Interface(), rv.MapIndex(k).Interface(), path, depth); err != nil {
			return Value{}, err
		}
	}
	return MapValue(out), nil
}

// compareKeys orders Go map keys: numbers numerically, strings lexically,
// mixed or other kinds by kind and then by printed form.
func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	default:
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
