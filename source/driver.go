package source

import (
	"fmt"
	"io"
	"sort"
	"sync"

	eng "github.com/reoring/gobound/internal/engine"
	"github.com/reoring/gobound/source/gojson"
	jsonsrc "github.com/reoring/gobound/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token struct {
	Kind   TokenKind
	String string // key and string tokens
	Number string // number text; Options.NumberMode interprets it
	Bool   bool
	Offset int64
}

// Tokens is a pull-based token stream. NextToken returns io.EOF after the
// last token.
type Tokens interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into Tokens. The default driver is backed by
// github.com/goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Tokens
	Name() string
}

// engineDriver exposes a built-in engine tokenizer as a JSONDriver.
type engineDriver struct {
	name string
	open func(io.Reader) eng.TokenSource
}

func (d engineDriver) NewReader(r io.Reader) Tokens { return fromEngine{d.open(r)} }
func (d engineDriver) Name() string                 { return d.name }

var (
	goJSONDriver  = engineDriver{name: gojson.Name, open: gojson.NewReader}
	stdJSONDriver = engineDriver{name: jsonsrc.Name, open: jsonsrc.NewReader}
)

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver
)

var registered = map[string]JSONDriver{
	gojson.Name:  goJSONDriver,
	jsonsrc.Name: stdJSONDriver,
}

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver) }

// CurrentJSONDriver returns the driver Load uses for JSON.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// RegisterJSONDriver makes d available to DriverByName.
func RegisterJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	registered[d.Name()] = d
	jsonDriverMu.Unlock()
}

// DriverByName looks up a registered driver: "go-json", "encoding/json" or
// anything added with RegisterJSONDriver.
func DriverByName(name string) (JSONDriver, error) {
	jsonDriverMu.RLock()
	d, ok := registered[name]
	jsonDriverMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source: unknown JSON driver %q (have %v)", name, DriverNames())
	}
	return d, nil
}

// DriverNames lists the registered driver names, sorted.
func DriverNames() []string {
	jsonDriverMu.RLock()
	defer jsonDriverMu.RUnlock()
	names := make([]string, 0, len(registered))
	for n := range registered {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// fromEngine adapts an engine.TokenSource to Tokens. TokenKind mirrors
// engine.Kind value for value.
type fromEngine struct{ inner eng.TokenSource }

func (s fromEngine) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s fromEngine) Location() int64 { return s.inner.Location() }

// toEngine adapts Tokens to an engine.TokenSource, unwrapping built-in
// sources.
func toEngine(t Tokens) eng.TokenSource {
	if fe, ok := t.(fromEngine); ok {
		return fe.inner
	}
	return engineAdapter{t}
}

type engineAdapter struct{ inner Tokens }

func (s engineAdapter) NextToken() (eng.Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: eng.Kind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s engineAdapter) Location() int64 { return s.inner.Location() }
