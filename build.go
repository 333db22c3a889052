package gobound

// Builders for literal trees, mostly emitted by generated code whose
// capacities are known to fit. They panic on overflow.

// KV pairs a key with a value for MustMap.
func KV(k, v Value) Entry[Value, Value] { return Entry[Value, Value]{Key: k, Value: v} }

// Text is shorthand for a text Value of capacity len(s)+1.
func Text(s string) Value { return MustText(len(s)+1, s) }

// MustText returns a text Value of the given capacity holding s.
func MustText(capacity int, s string) Value {
	str, err := StringOf(capacity, s)
	if err != nil {
		panic(err)
	}
	return TextValue(str)
}

// MustSeq returns a sequence Value of the given capacity holding elems.
func MustSeq(capacity int, elems ...Value) Value {
	v, err := VectorOf(capacity, elems...)
	if err != nil {
		panic(err)
	}
	return SeqValue(v)
}

// MustMap returns a map Value of the given capacity holding entries in order.
// Entries are stored as given; duplicate keys are not merged.
func MustMap(capacity int, entries ...Entry[Value, Value]) Value {
	if len(entries) > capacity {
		panic(capacityErr("push", len(entries), capacity))
	}
	m := NewValueMap(capacity)
	m.entries.n = copy(m.entries.data, entries)
	return MapValue(m)
}
