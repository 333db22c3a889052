// Package stream narrows a token stream to the subtree a JSON Pointer names,
// skipping everything before it without decoding.
package stream

import (
	"io"
	"strconv"
	"strings"

	"github.com/reoring/gobound"
	eng "github.com/reoring/gobound/internal/engine"
)

// SubtreeSource exposes a single value of inner: the token it was built with
// and, when that token opens a container, everything up to the matching close.
// The rest of inner is never read.
type SubtreeSource struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtreeSource returns a view of the value that starts with first.
func NewSubtreeSource(inner eng.TokenSource, first eng.Token) *SubtreeSource {
	return &SubtreeSource{inner: inner, first: &first}
}

func (s *SubtreeSource) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		var err error
		if tok, err = s.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 {
		s.done = true
	}
	return tok, nil
}

func (s *SubtreeSource) Location() int64 { return s.inner.Location() }

var (
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
)

// ParsePointer splits an RFC 6901 pointer into unescaped reference tokens.
// Both "" and "/" name the whole document.
func ParsePointer(p string) ([]string, error) {
	if p == "" || p == "/" {
		return nil, nil
	}
	if p[0] != '/' {
		return nil, &gobound.Error{Op: "select", Path: p, Err: gobound.ErrUnsupported}
	}
	refs := strings.Split(p[1:], "/")
	for i, r := range refs {
		refs[i] = unescaper.Replace(r)
	}
	return refs, nil
}

// Select consumes src up to the value named by pointer and returns a source
// over that value alone. Within an object the first matching key wins.
func Select(src eng.TokenSource, pointer string) (eng.TokenSource, error) {
	refs, err := ParsePointer(pointer)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return src, nil
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	at := ""
	for _, ref := range refs {
		at += "/" + escaper.Replace(ref)
		switch tok.Kind {
		case eng.KindBeginObject:
			tok, err = seekKey(src, ref, at)
		case eng.KindBeginArray:
			tok, err = seekIndex(src, ref, at)
		default:
			err = &gobound.Error{Op: "select", Path: at, Err: gobound.ErrShapeMismatch}
		}
		if err != nil {
			return nil, err
		}
	}
	return NewSubtreeSource(src, tok), nil
}

// seekKey reads entries of an open object until key, returning the first
// token of its value.
func seekKey(src eng.TokenSource, key, at string) (eng.Token, error) {
	for {
		tok, err := next(src)
		if err != nil {
			return eng.Token{}, err
		}
		switch tok.Kind {
		case eng.KindEndObject:
			return eng.Token{}, &gobound.Error{Op: "select", Path: at, Err: gobound.ErrKeyNotFound}
		case eng.KindKey:
		default:
			return eng.Token{}, io.ErrUnexpectedEOF
		}
		vt, err := next(src)
		if err != nil {
			return eng.Token{}, err
		}
		if tok.String == key {
			return vt, nil
		}
		if err := Skip(src, vt); err != nil {
			return eng.Token{}, err
		}
	}
}

func seekIndex(src eng.TokenSource, ref, at string) (eng.Token, error) {
	want, err := strconv.Atoi(ref)
	if err != nil || want < 0 || (len(ref) > 1 && ref[0] == '0') {
		return eng.Token{}, &gobound.Error{Op: "select", Path: at, Err: gobound.ErrKeyNotFound}
	}
	for i := 0; ; i++ {
		tok, err := next(src)
		if err != nil {
			return eng.Token{}, err
		}
		if tok.Kind == eng.KindEndArray {
			return eng.Token{}, &gobound.Error{Op: "select", Path: at, Len: want, Cap: i, Err: gobound.ErrIndexOutOfRange}
		}
		if i == want {
			return tok, nil
		}
		if err := Skip(src, tok); err != nil {
			return eng.Token{}, err
		}
	}
}

// Skip consumes the rest of the value that starts with first.
func Skip(src eng.TokenSource, first eng.Token) error {
	depth := 0
	for tok := first; ; {
		switch tok.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			depth++
		case eng.KindEndObject, eng.KindEndArray:
			depth--
		}
		if depth <= 0 {
			return nil
		}
		var err error
		if tok, err = next(src); err != nil {
			return err
		}
	}
}

func next(src eng.TokenSource) (eng.Token, error) {
	tok, err := src.NextToken()
	if err == io.EOF {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
