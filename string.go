package gobound

import "iter"

// String is a fixed-capacity byte string with a trailing NUL terminator.
//
// Cap counts the terminator slot, so a String of capacity N holds at most N-1
// bytes of content and the slot at Len() is always 0. The zero String has
// capacity 0 and cannot hold any content.
type String struct {
	buf Vector[byte]
}

// NewString returns an empty String of the given capacity (terminator included).
func NewString(capacity int) *String {
	return &String{buf: *NewVector[byte](capacity)}
}

// StringOf returns a String of the given capacity holding s.
func StringOf(capacity int, s string) (*String, error) {
	str := NewString(capacity)
	if err := str.Append(s); err != nil {
		return nil, err
	}
	return str, nil
}

func (s *String) Len() int    { return s.buf.n }
func (s *String) Cap() int    { return len(s.buf.data) }
func (s *String) Empty() bool { return s.buf.n == 0 }

// room is the number of content bytes still available.
func (s *String) room() int {
	if len(s.buf.data) == 0 {
		return 0
	}
	return len(s.buf.data) - 1 - s.buf.n
}

// Push appends one byte.
func (s *String) Push(c byte) error {
	if s.room() < 1 {
		return capacityErr("push", s.buf.n+1, s.Cap())
	}
	s.buf.data[s.buf.n] = c
	s.buf.n++
	s.buf.data[s.buf.n] = 0
	return nil
}

// Append appends str. Nothing is written when str does not fit.
func (s *String) Append(str string) error {
	if len(str) > s.room() {
		return capacityErr("append", s.buf.n+len(str), s.Cap())
	}
	s.buf.n += copy(s.buf.data[s.buf.n:], str)
	if len(s.buf.data) > 0 {
		s.buf.data[s.buf.n] = 0
	}
	return nil
}

// Pop removes and returns the last byte.
func (s *String) Pop() (byte, error) {
	c, err := s.buf.Pop()
	if err != nil {
		return 0, err
	}
	s.buf.data[s.buf.n] = 0
	return c, nil
}

// At returns byte i, failing when i is outside [0, Len()).
func (s *String) At(i int) (byte, error) { return s.buf.At(i) }

// Resize changes the content length; grown bytes are zero.
func (s *String) Resize(n int) error {
	if n > 0 && n > s.Cap()-1 {
		return capacityErr("resize", n, s.Cap())
	}
	if err := s.buf.Resize(n); err != nil {
		return err
	}
	if len(s.buf.data) > 0 {
		s.buf.data[n] = 0
	}
	return nil
}

// Clear empties the String. Old content bytes stay resident.
func (s *String) Clear() {
	s.buf.n = 0
	if len(s.buf.data) > 0 {
		s.buf.data[0] = 0
	}
}

// String returns the content as a Go string (a copy).
func (s *String) String() string { return string(s.buf.data[:s.buf.n]) }

// Bytes returns the content without the terminator, capacity-clipped.
func (s *String) Bytes() []byte { return s.buf.Slice() }

// CString returns the content followed by its NUL terminator.
// It is nil for a zero-capacity String.
func (s *String) CString() []byte {
	if len(s.buf.data) == 0 {
		return nil
	}
	return s.buf.data[: s.buf.n+1 : s.buf.n+1]
}

// All iterates the content bytes in order.
func (s *String) All() iter.Seq2[int, byte] { return s.buf.All() }

// Backward iterates the content bytes from last to first.
func (s *String) Backward() iter.Seq2[int, byte] { return s.buf.Backward() }

// EqualString compares the content with a Go string.
func (s *String) EqualString(str string) bool { return string(s.Bytes()) == str }

// Equal compares content only; capacities may differ.
func (s *String) Equal(o *String) bool { return string(s.Bytes()) == string(o.Bytes()) }

// Concat returns a new String holding a followed by b. Its capacity is the sum
// of both capacities minus the one terminator slot they share. A zero-capacity
// operand counts as capacity 1, an empty string with its terminator, so the
// result always has room for its terminator.
func Concat(a, b *String) *String {
	out := NewString(max(a.Cap(), 1) + max(b.Cap(), 1) - 1)
	n := copy(out.buf.data, a.Bytes())
	n += copy(out.buf.data[n:], b.Bytes())
	out.buf.n = n
	return out
}
