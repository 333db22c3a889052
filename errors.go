package gobound

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every failure returned by this package wraps exactly one of
// them, so callers branch with errors.Is.
var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrKeyNotFound      = errors.New("key not found")
	ErrUnderflow        = errors.New("underflow")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrTooDeep          = errors.New("max depth exceeded")
	ErrUnsupported      = errors.New("unsupported value")
)

// Error codes mirror the sentinels for callers that report failures as data.
const (
	CodeCapacityExceeded = "capacity_exceeded"
	CodeIndexOutOfRange  = "index_out_of_range"
	CodeKeyNotFound      = "key_not_found"
	CodeUnderflow        = "underflow"
	CodeShapeMismatch    = "shape_mismatch"
	CodeTooDeep          = "too_deep"
	CodeUnsupported      = "unsupported"
)

// Error describes a failed container operation or pipeline step.
type Error struct {
	Op   string // push, pop, at, resize, stackify, compact, ...
	Path string // JSON Pointer of the offending container; empty for direct container calls.
	Len  int    // Occupancy that was requested or observed.
	Cap  int    // Capacity that was available.
	Err  error  // One of the sentinels above.
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("gobound: ")
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteByte(' ')
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if errors.Is(e.Err, ErrCapacityExceeded) || errors.Is(e.Err, ErrIndexOutOfRange) {
		fmt.Fprintf(b, " (len %d, cap %d)", e.Len, e.Cap)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the stable code of the wrapped sentinel.
func (e *Error) Code() string { return CodeOf(e) }

// CodeOf maps err to one of the Code constants, or "" for foreign errors.
func CodeOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrIndexOutOfRange):
		return CodeIndexOutOfRange
	case errors.Is(err, ErrKeyNotFound):
		return CodeKeyNotFound
	case errors.Is(err, ErrUnderflow):
		return CodeUnderflow
	case errors.Is(err, ErrShapeMismatch):
		return CodeShapeMismatch
	case errors.Is(err, ErrTooDeep):
		return CodeTooDeep
	case errors.Is(err, ErrUnsupported):
		return CodeUnsupported
	default:
		return ""
	}
}

// AsError extracts *Error from err using errors.As.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func capacityErr(op string, n, c int) error {
	return &Error{Op: op, Len: n, Cap: c, Err: ErrCapacityExceeded}
}

func rangeErr(op string, i, n int) error {
	return &Error{Op: op, Len: i, Cap: n, Err: ErrIndexOutOfRange}
}

// withPath stamps a path onto a container error bubbling out of the pipeline.
// The first (deepest) path wins.
func withPath(err error, op, path string) error {
	if e, ok := AsError(err); ok {
		if e.Path == "" {
			cp := *e
			cp.Op = op
			cp.Path = normalizePath(path)
			return &cp
		}
		return err
	}
	return &Error{Op: op, Path: normalizePath(path), Err: err}
}
