package gobound

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSequence
	KindText
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindText:
		return "text"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of a bounded nested structure: a scalar, a Vector of
// Values, a String, or a Map from Value to Value. The zero Value is the null
// scalar.
type Value struct {
	kind   Kind
	scalar any
	seq    *Vector[Value]
	text   *String
	dict   *Map[Value, Value]
}

// Scalar wraps a leaf value. Containers passed here are not inspected.
func Scalar(x any) Value { return Value{kind: KindScalar, scalar: x} }

// SeqValue wraps a Vector of Values.
func SeqValue(v *Vector[Value]) Value { return Value{kind: KindSequence, seq: v} }

// TextValue wraps a String.
func TextValue(s *String) Value { return Value{kind: KindText, text: s} }

// MapValue wraps a Map of Values.
func MapValue(m *Map[Value, Value]) Value { return Value{kind: KindMap, dict: m} }

// NewValueMap returns an empty Map keyed by Value content equality.
func NewValueMap(capacity int) *Map[Value, Value] {
	return NewMapFunc[Value, Value](capacity, Value.Equal)
}

func (v Value) Kind() Kind               { return v.kind }
func (v Value) Scalar() any              { return v.scalar }
func (v Value) Sequence() *Vector[Value] { return v.seq }
func (v Value) Text() *String            { return v.text }
func (v Value) Map() *Map[Value, Value]  { return v.dict }
func (v Value) IsNull() bool             { return v.kind == KindScalar && v.scalar == nil }
func (v Value) IsContainer() bool        { return v.kind != KindScalar }

// Len is the occupancy of a container Value and 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return v.seq.Len()
	case KindText:
		return v.text.Len()
	case KindMap:
		return v.dict.Len()
	default:
		return 0
	}
}

// Cap is the capacity of a container Value and 0 for scalars.
func (v Value) Cap() int {
	switch v.kind {
	case KindSequence:
		return v.seq.Cap()
	case KindText:
		return v.text.Cap()
	case KindMap:
		return v.dict.Cap()
	default:
		return 0
	}
}

// Equal reports content equality. Capacities are ignored at every level.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindSequence:
		return EqualFunc(v.seq, o.seq, Value.Equal)
	case KindText:
		return v.text.Equal(o.text)
	case KindMap:
		if v.dict.Len() != o.dict.Len() {
			return false
		}
		oe := o.dict.Entries()
		for i, e := range v.dict.Entries() {
			if !e.Key.Equal(oe[i].Key) || !e.Value.Equal(oe[i].Value) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(v.scalar, o.scalar)
	}
}

func scalarEqual(a, b any) (eq bool) {
	defer func() {
		// uncomparable dynamic types (slices smuggled in as scalars)
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Index returns element i of a sequence Value.
func (v Value) Index(i int) (Value, error) {
	if v.kind != KindSequence {
		return Value{}, &Error{Op: "index", Err: ErrShapeMismatch}
	}
	return v.seq.At(i)
}

// Get looks up a text key in a map Value.
func (v Value) Get(key string) (Value, error) {
	if v.kind != KindMap {
		return Value{}, &Error{Op: "get", Err: ErrShapeMismatch}
	}
	for _, e := range v.dict.Entries() {
		if e.Key.kind == KindText && e.Key.text.EqualString(key) {
			return e.Value, nil
		}
	}
	return Value{}, &Error{Op: "get", Path: joinPointer("", key), Err: ErrKeyNotFound}
}

// Lookup looks up an arbitrary key in a map Value.
func (v Value) Lookup(key Value) (Value, error) {
	if v.kind != KindMap {
		return Value{}, &Error{Op: "lookup", Err: ErrShapeMismatch}
	}
	return v.dict.At(key)
}

// Interface converts v back to plain Go values: []any for sequences, string
// for text, Pairs for maps, the wrapped value for scalars.
func (v Value) Interface() any {
	switch v.kind {
	case KindSequence:
		out := make([]any, 0, v.seq.Len())
		for _, e := range v.seq.All() {
			out = append(out, e.Interface())
		}
		return out
	case KindText:
		return v.text.String()
	case KindMap:
		out := make(Pairs, 0, v.dict.Len())
		for k, e := range v.dict.All() {
			out = append(out, Pair{Key: k.Interface(), Value: e.Interface()})
		}
		return out
	default:
		return v.scalar
	}
}

// String renders v compactly for logs and test failures.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindSequence:
		b.WriteByte('[')
		for i, e := range v.seq.All() {
			if i > 0 {
				b.WriteByte(' ')
			}
			e.write(b)
		}
		b.WriteByte(']')
	case KindText:
		b.WriteString(strconv.Quote(v.text.String()))
	case KindMap:
		b.WriteByte('{')
		first := true
		for k, e := range v.dict.All() {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			k.write(b)
			b.WriteByte(':')
			e.write(b)
		}
		b.WriteByte('}')
	default:
		if v.scalar == nil {
			b.WriteString("null")
			return
		}
		fmt.Fprint(b, v.scalar)
	}
}

// Pair is one entry of an ordered dynamic map.
type Pair struct {
	Key   any
	Value any
}

// Pairs is an ordered dynamic map: the input-side counterpart of Map. Loaders
// produce it so that document order survives into the bounded structure.
type Pairs []Pair

// Get returns the value of the first pair whose key equals key.
func (p Pairs) Get(key any) (any, bool) {
	for _, e := range p {
		if scalarEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key in place, or appends a new pair.
func (p *Pairs) Set(key, val any) {
	for i := range *p {
		if scalarEqual((*p)[i].Key, key) {
			(*p)[i].Value = val
			return
		}
	}
	*p = append(*p, Pair{Key: key, Value: val})
}
