package gobound

// DefaultBound is the capacity Stackify uses when Options.Bound is zero. It
// caps every nesting level of an input, so it only needs to exceed the widest
// level; Compact discards whatever is not used.
const DefaultBound = 10 * 1024

// Options bundles pipeline options.
type Options struct {
	// Bound is the uniform capacity applied at every nesting level by Stackify.
	// Zero means DefaultBound; a negative bound fails.
	Bound int
	// MaxDepth limits how deeply sequences and maps may nest during Stackify;
	// a root container is depth 1. Zero disables the check.
	MaxDepth int
}

func (o Options) bound() int {
	if o.Bound == 0 {
		return DefaultBound
	}
	return o.Bound
}
