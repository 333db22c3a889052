package engine

import (
	"errors"
	"strconv"
	"strings"

	"github.com/reoring/gobound"
)

// Enforcement wrapper for TokenSource applying duplicate key handling, max
// depth checks and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeTooDeep      = "too_deep"
	CodeTruncated    = "truncated"
)

// ErrDuplicateKey and ErrMaxBytes are the sentinels behind IssueError
// for the duplicate_key and truncated codes. Depth violations unwrap to
// gobound.ErrTooDeep.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrMaxBytes     = errors.New("max bytes exceeded")
)

// SimpleIssue is a minimal issue representation.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, fatal or not. Optional.
	IssueSink func(SimpleIssue)
}

// Active reports whether any check is enabled.
func (o EnforceOptions) Active() bool {
	return o.OnDuplicate != DupIgnore || o.MaxDepth > 0 || o.MaxBytes > 0
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Message }

func (e IssueError) Unwrap() error {
	switch e.Code {
	case CodeDuplicateKey:
		return ErrDuplicateKey
	case CodeTooDeep:
		return gobound.ErrTooDeep
	case CodeTruncated:
		return ErrMaxBytes
	}
	return nil
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces opt on inner. When
// no check is enabled inner is returned as is.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if !opt.Active() {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail(SimpleIssue{Code: CodeTooDeep, Path: path, Message: "max depth " + strconv.Itoa(e.opt.MaxDepth) + " exceeded"})
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if top := e.top(); top != nil && top.kind == kindObject && top.expectingKey {
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: CodeDuplicateKey, Path: path, Message: "key '" + tok.String + "' duplicated"}
				if e.opt.OnDuplicate == DupError {
					return Token{}, e.fail(si)
				}
				e.report(si)
			}
			top.keys[tok.String] = struct{}{}
			top.expectingKey = false
			top.pendingKey = tok.String
		}
	default:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, e.fail(SimpleIssue{Code: CodeTruncated, Path: path, Message: "max bytes " + strconv.FormatInt(e.opt.MaxBytes, 10) + " exceeded"})
		}
	}
	return tok, nil
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) top() *frame {
	if n := len(e.stack); n > 0 {
		return &e.stack[n-1]
	}
	return nil
}

// valueDone flips the enclosing object back to expecting a key.
func (e *enforcingTokenSource) valueDone() {
	if top := e.top(); top != nil && top.kind == kindObject && !top.expectingKey {
		top.expectingKey = true
		top.pendingKey = ""
	}
}

func (e *enforcingTokenSource) report(si SimpleIssue) {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
}

func (e *enforcingTokenSource) fail(si SimpleIssue) error {
	e.report(si)
	return IssueError{si}
}

// pathFor returns the JSON Pointer of the value tok starts or belongs to.
func (e *enforcingTokenSource) pathFor(tok Token) string {
	top := e.top()
	if top == nil {
		return "/"
	}
	switch tok.Kind {
	case KindKey:
		return joinJSONPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return normalizeIssuePath(top.path)
	}
	if top.kind == kindArray {
		p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	return joinJSONPointer(top.path, top.pendingKey)
}

func normalizeIssuePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinJSONPointer(base, token string) string {
	if base == "/" {
		base = ""
	}
	return base + "/" + jsonPointerEscaper.Replace(token)
}
