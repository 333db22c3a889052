// Package yaml tokenizes YAML documents with gopkg.in/yaml.v3. The document is
// parsed into a yaml.Node tree first, so mapping order is kept and aliases are
// expanded in place.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/gobound/internal/engine"
)

// Name identifies this driver.
const Name = "yaml"

var (
	// ErrAliasCycle reports an alias that refers to one of its own ancestors.
	ErrAliasCycle = errors.New("yaml: alias cycle")
	// ErrAliasExpansion reports a document whose aliases expand to far more
	// tokens than its size accounts for.
	ErrAliasExpansion = errors.New("yaml: excessive aliasing")
)

// A document may emit up to minTokenBudget tokens, or tokensPerByte tokens
// per input byte when that is more. Without aliases no document comes close.
const (
	minTokenBudget = 4096
	tokensPerByte  = 16
)

// NewReader reads all of r and tokenizes its first document. Parse errors are
// returned by the first NextToken call.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &failed{err: err}
	}
	return NewBytes(b)
}

// NewBytes tokenizes the first YAML document in b. Empty input yields a null.
func NewBytes(b []byte) eng.TokenSource {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		if err == io.EOF {
			return &eng.SliceSource{Tokens: []eng.Token{{Kind: eng.KindNull, Offset: 0}}}
		}
		return &failed{err: err}
	}
	t := tokenizer{
		lines:  lineStarts(b),
		active: map[*yaml.Node]bool{},
		budget: max(minTokenBudget, tokensPerByte*len(b)),
	}
	if err := t.node(&doc); err != nil {
		return &failed{err: err}
	}
	return &eng.SliceSource{Tokens: t.out}
}

type failed struct{ err error }

func (f *failed) NextToken() (eng.Token, error) { return eng.Token{}, f.err }
func (f *failed) Location() int64               { return -1 }

type tokenizer struct {
	out    []eng.Token
	lines  []int64
	active map[*yaml.Node]bool
	budget int
}

func lineStarts(b []byte) []int64 {
	starts := []int64{0}
	for i, c := range b {
		if c == '\n' {
			starts = append(starts, int64(i+1))
		}
	}
	return starts
}

// offset converts the 1-based line and column of n to a byte offset.
func (t *tokenizer) offset(n *yaml.Node) int64 {
	if n.Line <= 0 || n.Line > len(t.lines) {
		return -1
	}
	return t.lines[n.Line-1] + int64(max(n.Column-1, 0))
}

func (t *tokenizer) emit(n *yaml.Node, tok eng.Token) {
	tok.Offset = t.offset(n)
	t.out = append(t.out, tok)
}

func (t *tokenizer) node(n *yaml.Node) error {
	if len(t.out) > t.budget {
		return fmt.Errorf("%w: more than %d tokens at line %d", ErrAliasExpansion, t.budget, n.Line)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			t.emit(n, eng.Token{Kind: eng.KindNull})
			return nil
		}
		return t.node(n.Content[0])
	case yaml.AliasNode:
		if t.active[n.Alias] {
			return fmt.Errorf("%w at line %d", ErrAliasCycle, n.Line)
		}
		return t.node(n.Alias)
	case yaml.SequenceNode:
		t.active[n] = true
		defer delete(t.active, n)
		t.emit(n, eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			if err := t.node(c); err != nil {
				return err
			}
		}
		t.emit(n, eng.Token{Kind: eng.KindEndArray})
		return nil
	case yaml.MappingNode:
		t.active[n] = true
		defer delete(t.active, n)
		t.emit(n, eng.Token{Kind: eng.KindBeginObject})
		if err := t.mapping(n); err != nil {
			return err
		}
		t.emit(n, eng.Token{Kind: eng.KindEndObject})
		return nil
	case yaml.ScalarNode:
		return t.scalar(n)
	}
	return fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
}

// mapping emits the entries of n. Merge keys (<<) contribute the entries of
// the merged mappings that n does not set itself; among several merged
// mappings the first one wins.
func (t *tokenizer) mapping(n *yaml.Node) error {
	seen := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; k.ShortTag() != "!!merge" {
			key, err := keyText(k)
			if err != nil {
				return err
			}
			seen[key] = true
		}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			if err := t.merge(v, seen); err != nil {
				return err
			}
			continue
		}
		key, _ := keyText(k)
		t.emit(k, eng.Token{Kind: eng.KindKey, String: key})
		if err := t.node(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *tokenizer) merge(v *yaml.Node, seen map[string]bool) error {
	for v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	switch v.Kind {
	case yaml.MappingNode:
		if t.active[v] {
			return fmt.Errorf("%w at line %d", ErrAliasCycle, v.Line)
		}
		for i := 0; i+1 < len(v.Content); i += 2 {
			k, val := v.Content[i], v.Content[i+1]
			if k.ShortTag() == "!!merge" {
				if err := t.merge(val, seen); err != nil {
					return err
				}
				continue
			}
			key, err := keyText(k)
			if err != nil {
				return err
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			t.emit(k, eng.Token{Kind: eng.KindKey, String: key})
			if err := t.node(val); err != nil {
				return err
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, m := range v.Content {
			if err := t.merge(m, seen); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("yaml: merge value at line %d is not a mapping", v.Line)
}

// keyText renders a mapping key. Scalars keep their source text; complex keys
// are rejected since the token stream carries string keys only.
func keyText(k *yaml.Node) (string, error) {
	for k.Kind == yaml.AliasNode {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("yaml: non-scalar mapping key at line %d", k.Line)
	}
	return k.Value, nil
}

func (t *tokenizer) scalar(n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		t.emit(n, eng.Token{Kind: eng.KindNull})
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		t.emit(n, eng.Token{Kind: eng.KindBool, Bool: b})
	case "!!int":
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		t.emit(n, eng.Token{Kind: eng.KindNumber, Number: formatInt(v)})
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			// not representable as a number token
			t.emit(n, eng.Token{Kind: eng.KindString, String: n.Value})
			return nil
		}
		t.emit(n, eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(f, 'g', -1, 64)})
	default:
		t.emit(n, eng.Token{Kind: eng.KindString, String: n.Value})
	}
	return nil
}

func formatInt(v any) string {
	switch i := v.(type) {
	case int:
		return strconv.Itoa(i)
	case int64:
		return strconv.FormatInt(i, 10)
	case uint64:
		return strconv.FormatUint(i, 10)
	case float64:
		return strconv.FormatFloat(i, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
