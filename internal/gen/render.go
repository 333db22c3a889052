// Package gen renders bounded values as Go source. The output declares one
// promoted variable per value, built from the gobound Must* literal builders
// at exactly the capacities the value carries, and is formatted with
// go/format. Equal input renders to identical bytes.
package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"go/token"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/gobound"
)

// ImportPath is the import path generated files use for the runtime package.
const ImportPath = "github.com/reoring/gobound"

// DefaultHeader marks files as generated.
const DefaultHeader = "// Code generated by gobound. DO NOT EDIT."

// File describes one generated source file.
type File struct {
	Package string
	Header  string // leading comment block; DefaultHeader when empty
	Vars    []Var
}

// Var is one promoted table.
type Var struct {
	Name  string
	Doc   string // optional doc comment text, without the leading //
	Value gobound.Value
}

// RenderFile renders f as gofmt'd Go source.
func RenderFile(f File) ([]byte, error) {
	if !token.IsIdentifier(f.Package) {
		return nil, fmt.Errorf("gen: invalid package name %q", f.Package)
	}
	var body bytes.Buffer
	usesJSON := false
	for i, v := range f.Vars {
		if !token.IsIdentifier(v.Name) {
			return nil, fmt.Errorf("gen: invalid variable name %q", v.Name)
		}
		r := renderer{}
		if err := r.value(v.Value, ""); err != nil {
			return nil, fmt.Errorf("gen: %s: %w", v.Name, err)
		}
		usesJSON = usesJSON || r.usesJSON
		if i > 0 {
			body.WriteByte('\n')
		}
		writeDoc(&body, v.Doc)
		fmt.Fprintf(&body, "var %s = gobound.Promote(func() (gobound.Value, error) {\n\treturn %s, nil\n})\n", v.Name, r.b.String())
	}

	var out bytes.Buffer
	header := f.Header
	if header == "" {
		header = DefaultHeader
	}
	out.WriteString(header)
	out.WriteString("\n\npackage ")
	out.WriteString(f.Package)
	out.WriteString("\n\nimport (\n")
	if usesJSON {
		out.WriteString("\t\"encoding/json\"\n\n")
	}
	out.WriteString("\t" + strconv.Quote(ImportPath) + "\n)\n\n")
	out.Write(body.Bytes())

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return src, nil
}

// RenderValue renders v as a single Go expression.
func RenderValue(v gobound.Value) (string, error) {
	r := renderer{}
	if err := r.value(v, ""); err != nil {
		return "", err
	}
	return r.b.String(), nil
}

func writeDoc(b *bytes.Buffer, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

type renderer struct {
	b        strings.Builder
	usesJSON bool
}

func (r *renderer) value(v gobound.Value, path string) error {
	switch v.Kind() {
	case gobound.KindText:
		fmt.Fprintf(&r.b, "gobound.MustText(%d, %s)", v.Cap(), strconv.Quote(v.Text().String()))
		return nil
	case gobound.KindSequence:
		fmt.Fprintf(&r.b, "gobound.MustSeq(%d", v.Cap())
		for i, e := range v.Sequence().All() {
			r.b.WriteString(",\n")
			if err := r.value(e, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		r.close(v.Len())
		return nil
	case gobound.KindMap:
		fmt.Fprintf(&r.b, "gobound.MustMap(%d", v.Cap())
		for k, e := range v.Map().All() {
			at := path + "/" + pointerToken(k)
			r.b.WriteString(",\ngobound.KV(")
			if err := r.value(k, at); err != nil {
				return err
			}
			r.b.WriteString(", ")
			if err := r.value(e, at); err != nil {
				return err
			}
			r.b.WriteString(")")
		}
		r.close(v.Len())
		return nil
	}
	lit, err := r.scalar(v.Scalar())
	if err != nil {
		if path == "" {
			path = "/"
		}
		return &gobound.Error{Op: "gen", Path: path, Err: fmt.Errorf("%w: %v", gobound.ErrUnsupported, err)}
	}
	r.b.WriteString("gobound.Scalar(" + lit + ")")
	return nil
}

// close ends a builder call; multi-line argument lists get a trailing comma.
func (r *renderer) close(n int) {
	if n > 0 {
		r.b.WriteString(",\n")
	}
	r.b.WriteString(")")
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointerToken(k gobound.Value) string {
	if k.Kind() == gobound.KindText {
		return pointerEscaper.Replace(k.Text().String())
	}
	return pointerEscaper.Replace(k.String())
}

// scalar renders x as a Go literal of the same dynamic type.
func (r *renderer) scalar(x any) (string, error) {
	switch t := x.(type) {
	case nil:
		return "nil", nil
	case bool:
		return strconv.FormatBool(t), nil
	case string:
		return strconv.Quote(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%T(%d)", t, t), nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return fmt.Sprintf("%T(%d)", t, t), nil
	case float64:
		return floatLit(t, 64)
	case float32:
		s, err := floatLit(float64(t), 32)
		if err != nil {
			return "", err
		}
		return "float32(" + s + ")", nil
	case json.Number:
		r.usesJSON = true
		return "json.Number(" + strconv.Quote(string(t)) + ")", nil
	}
	return "", fmt.Errorf("scalar of type %T", x)
}

// floatLit keeps a float constant a float constant: 3 becomes 3.0.
func floatLit(f float64, bits int) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("non-finite float %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
