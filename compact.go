package gobound

import "go.uber.org/zap"

// Compact rebuilds v with the capacities given by s at every level: a sequence
// gets capacity s.Seq, a map s.Map, a text s.Text+1. Content and order are
// copied unchanged.
//
// It fails with ErrCapacityExceeded when some level of v is larger than s
// allows and with ErrShapeMismatch when v holds a kind s never observed there.
func Compact(s *Shape, v Value) (Value, error) {
	return compact(s, v, "")
}

func compact(s *Shape, v Value, path string) (Value, error) {
	if s == nil || !s.Kinds.Has(v.kind) {
		return Value{}, &Error{Op: "compact", Path: normalizePath(path), Err: ErrShapeMismatch}
	}
	switch v.kind {
	case KindText:
		n := v.text.Len()
		if n > s.Text {
			return Value{}, &Error{Op: "compact", Path: normalizePath(path), Len: n + 1, Cap: s.Text + 1, Err: ErrCapacityExceeded}
		}
		out := NewString(s.Text + 1)
		out.buf.n = copy(out.buf.data, v.text.Bytes())
		return TextValue(out), nil
	case KindSequence:
		n := v.seq.Len()
		if n > s.Seq {
			return Value{}, &Error{Op: "compact", Path: normalizePath(path), Len: n, Cap: s.Seq, Err: ErrCapacityExceeded}
		}
		out := NewVector[Value](s.Seq)
		for i, e := range v.seq.All() {
			c, err := compact(s.Elem, e, indexPointer(path, i))
			if err != nil {
				return Value{}, err
			}
			out.data[i] = c
		}
		out.n = n
		return SeqValue(out), nil
	case KindMap:
		n := v.dict.Len()
		if n > s.Map {
			return Value{}, &Error{Op: "compact", Path: normalizePath(path), Len: n, Cap: s.Map, Err: ErrCapacityExceeded}
		}
		out := NewValueMap(s.Map)
		for i, e := range v.dict.Entries() {
			at := keyPointer(path, e.Key)
			k, err := compact(s.Key, e.Key, at)
			if err != nil {
				return Value{}, err
			}
			val, err := compact(s.Val, e.Value, at)
			if err != nil {
				return Value{}, err
			}
			out.entries.data[i] = Entry[Value, Value]{Key: k, Value: val}
		}
		out.entries.n = n
		return MapValue(out), nil
	default:
		return v, nil
	}
}

// Minimize runs the whole pipeline: Stackify at bound, Measure, Compact. The
// result holds the same content as v with no spare slot at the widest
// container of every level. Like Stackify, it uses bound as given.
func Minimize(bound int, v any) (Value, error) {
	stacked, err := Stackify(bound, v)
	if err != nil {
		return Value{}, err
	}
	return minimize(stacked)
}

// MinimizeWith is Minimize with full options. A zero Options.Bound means
// DefaultBound.
func MinimizeWith(v any, opt Options) (Value, error) {
	stacked, err := StackifyWith(v, opt)
	if err != nil {
		return Value{}, err
	}
	return minimize(stacked)
}

func minimize(stacked Value) (Value, error) {
	shape := Measure(stacked)
	out, err := Compact(shape, stacked)
	if err != nil {
		return Value{}, err
	}
	if l := Logger(); l.Core().Enabled(zap.DebugLevel) {
		before, after := Usage(stacked), Usage(out)
		l.Debug("minimize",
			zap.Stringer("shape", shape),
			zap.Int("slots_before", before.Slots),
			zap.Int("slots_after", after.Slots),
			zap.Int("slack_after", after.Slack()))
	}
	return out, nil
}

// MinimizeFunc calls producer once and minimizes its result.
func MinimizeFunc[T any](bound int, producer func() (T, error)) (Value, error) {
	v, err := producer()
	if err != nil {
		return Value{}, err
	}
	return Minimize(bound, v)
}
