package engine

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/reoring/gobound"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is the minimal interface every input driver implements.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData reports input left over after the first document.
var ErrTrailingData = errors.New("trailing data after document")

// NumberConv turns the text of a number token into a Go scalar.
type NumberConv func(string) (any, error)

// JSONNumber keeps numbers as json.Number.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Float64 parses every number as float64 (possible precision loss).
func Float64(s string) (any, error) { return strconv.ParseFloat(s, 64) }

// Int64OrFloat64 parses integers that fit int64 as int64 and the rest as float64.
func Int64OrFloat64(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Decode reads one value from src. Objects become gobound.Pairs in document
// order, arrays []any, numbers whatever conv returns (json.Number when conv is
// nil). A repeated object key keeps its first position and takes the last
// value.
func Decode(src TokenSource, conv NumberConv) (any, error) {
	if conv == nil {
		conv = JSONNumber
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok, conv)
}

// DecodeDocument is Decode that also requires src to be exhausted afterwards.
func DecodeDocument(src TokenSource, conv NumberConv) (any, error) {
	v, err := Decode(src, conv)
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token, conv NumberConv) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, conv)
	case KindBeginArray:
		return decodeArray(src, conv)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource, conv NumberConv) (any, error) {
	obj := gobound.Pairs{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndObject {
			return obj, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := decodeValue(src, vt, conv)
		if err != nil {
			return nil, err
		}
		obj.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource, conv NumberConv) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok, conv)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// unexpected maps EOF inside a container to io.ErrUnexpectedEOF.
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// SliceSource replays a fixed token list. Drivers that materialize a document
// before tokenizing it (YAML) emit through it.
type SliceSource struct {
	Tokens []Token
	next   int
}

func (s *SliceSource) NextToken() (Token, error) {
	if s.next >= len(s.Tokens) {
		return Token{}, io.EOF
	}
	t := s.Tokens[s.next]
	s.next++
	return t, nil
}

func (s *SliceSource) Location() int64 {
	if s.next == 0 {
		return -1
	}
	return s.Tokens[s.next-1].Offset
}
