package gobound

import (
	"strconv"
	"strings"
)

// KindSet is a set of Kinds.
type KindSet uint8

// KindsOf returns the set holding ks.
func KindsOf(ks ...Kind) KindSet {
	var s KindSet
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

func (s KindSet) Has(k Kind) bool { return s&(1<<k) != 0 }

// Shape is the size descriptor of one nesting level: which kinds occur there
// and, per container kind, the largest occupancy seen among all siblings.
// Child levels are described by Elem (sequence elements), Key and Val (map
// entries).
//
// A nil *Shape is the empty descriptor and the identity of Join. For a tree
// whose siblings all share one kind, Shape reduces to the classic descriptor:
// unit for scalars, (len, elem) for sequences and text, (len, key, val) for
// maps.
type Shape struct {
	Kinds KindSet
	Text  int // longest text, terminator excluded
	Seq   int
	Elem  *Shape
	Map   int
	Key   *Shape
	Val   *Shape
}

// Measure computes the descriptor of v: at every level, the smallest capacity
// that fits every sibling at that level.
func Measure(v Value) *Shape {
	switch v.kind {
	case KindText:
		return &Shape{Kinds: KindsOf(KindText), Text: v.text.Len()}
	case KindSequence:
		s := &Shape{Kinds: KindsOf(KindSequence), Seq: v.seq.Len()}
		for _, e := range v.seq.All() {
			s.Elem = Join(s.Elem, Measure(e))
		}
		return s
	case KindMap:
		s := &Shape{Kinds: KindsOf(KindMap), Map: v.dict.Len()}
		for k, e := range v.dict.All() {
			s.Key = Join(s.Key, Measure(k))
			s.Val = Join(s.Val, Measure(e))
		}
		return s
	default:
		return &Shape{Kinds: KindsOf(KindScalar)}
	}
}

// Join returns the element-wise maximum of a and b. Neither input is modified.
func Join(a, b *Shape) *Shape {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Shape{
		Kinds: a.Kinds | b.Kinds,
		Text:  max(a.Text, b.Text),
		Seq:   max(a.Seq, b.Seq),
		Elem:  Join(a.Elem, b.Elem),
		Map:   max(a.Map, b.Map),
		Key:   Join(a.Key, b.Key),
		Val:   Join(a.Val, b.Val),
	}
}

// Equal reports whether s and o describe the same shape.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Kinds == o.Kinds && s.Text == o.Text && s.Seq == o.Seq && s.Map == o.Map &&
		s.Elem.Equal(o.Elem) && s.Key.Equal(o.Key) && s.Val.Equal(o.Val)
}

// String renders the descriptor, e.g. map[2](text[5] => seq[1](scalar)).
// Alternatives at one level are joined with "|"; "-" is the empty descriptor.
func (s *Shape) String() string {
	if s == nil {
		return "-"
	}
	var parts []string
	if s.Kinds.Has(KindScalar) {
		parts = append(parts, "scalar")
	}
	if s.Kinds.Has(KindText) {
		parts = append(parts, "text["+strconv.Itoa(s.Text)+"]")
	}
	if s.Kinds.Has(KindSequence) {
		parts = append(parts, "seq["+strconv.Itoa(s.Seq)+"]("+s.Elem.String()+")")
	}
	if s.Kinds.Has(KindMap) {
		parts = append(parts, "map["+strconv.Itoa(s.Map)+"]("+s.Key.String()+" => "+s.Val.String()+")")
	}
	return strings.Join(parts, "|")
}

// Footprint counts container slots in a tree.
type Footprint struct {
	Containers int
	Slots      int // total capacity
	Used       int // occupied slots; a text's terminator counts as used
}

// Slack is the number of allocated but unused slots.
func (f Footprint) Slack() int { return f.Slots - f.Used }

// Usage walks v and sums its footprint.
func Usage(v Value) Footprint {
	var f Footprint
	f.add(v)
	return f
}

func (f *Footprint) add(v Value) {
	switch v.kind {
	case KindText:
		f.Containers++
		f.Slots += v.text.Cap()
		if v.text.Cap() > 0 {
			f.Used += v.text.Len() + 1
		}
	case KindSequence:
		f.Containers++
		f.Slots += v.seq.Cap()
		f.Used += v.seq.Len()
		for _, e := range v.seq.All() {
			f.add(e)
		}
	case KindMap:
		f.Containers++
		f.Slots += v.dict.Cap()
		f.Used += v.dict.Len()
		for k, e := range v.dict.All() {
			f.add(k)
			f.add(e)
		}
	}
}
