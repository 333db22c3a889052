package gen

import (
	"encoding/json"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/reoring/gobound"
)

func nested(t *testing.T) gobound.Value {
	t.Helper()
	v, err := gobound.Minimize(32, gobound.Pairs{
		{Key: "hello", Value: gobound.Pairs{{Key: "world", Value: []int{42}}, {Key: "jason", Value: []int{72}}}},
		{Key: "test", Value: gobound.Pairs{{Key: "data", Value: []int{84}}}},
	})
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	return v
}

func parse(t *testing.T, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	return f
}

func imports(f *ast.File) []string {
	var out []string
	for _, is := range f.Imports {
		p, _ := strconv.Unquote(is.Path.Value)
		out = append(out, p)
	}
	return out
}

func TestRenderFile_Minimal(t *testing.T) {
	out, err := RenderFile(File{Package: "foo", Vars: []Var{{Name: "Table", Value: nested(t)}}})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	f := parse(t, out)
	if f.Name.Name != "foo" {
		t.Fatalf("package = %s", f.Name.Name)
	}
	if got := imports(f); len(got) != 1 || got[0] != ImportPath {
		t.Fatalf("imports = %v", got)
	}
	if !strings.HasPrefix(string(out), DefaultHeader+"\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	for _, frag := range []string{
		"var Table = gobound.Promote(func() (gobound.Value, error) {",
		"gobound.MustMap(2,",
		`gobound.KV(gobound.MustText(6, "hello"), gobound.MustMap(2,`,
		`gobound.KV(gobound.MustText(6, "world"), gobound.MustSeq(1,`,
		"gobound.Scalar(42),",
	} {
		if !strings.Contains(string(out), frag) {
			t.Fatalf("output lacks %q:\n%s", frag, out)
		}
	}
}

func TestRenderFile_Deterministic(t *testing.T) {
	in := map[string]any{"b": []float64{1, 2.5}, "a": map[string]string{"y": "2", "x": "1"}}
	var first []byte
	for i := range 10 {
		v, err := gobound.Minimize(16, in)
		if err != nil {
			t.Fatalf("minimize: %v", err)
		}
		out, err := RenderFile(File{Package: "tables", Vars: []Var{{Name: "T", Doc: "T is a table.", Value: v}}})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if i == 0 {
			first = out
			continue
		}
		if string(out) != string(first) {
			t.Fatalf("render %d differs:\n%s\n---\n%s", i, out, first)
		}
	}
	if !strings.Contains(string(first), "// T is a table.\nvar T =") {
		t.Fatalf("doc comment missing:\n%s", first)
	}
	if !strings.Contains(string(first), "gobound.Scalar(1.0)") {
		t.Fatalf("integral float must stay a float literal:\n%s", first)
	}
}

func TestRenderFile_JSONNumberImport(t *testing.T) {
	v := gobound.MustSeq(2, gobound.Scalar(json.Number("12.50")), gobound.Scalar(int64(-3)))
	out, err := RenderFile(File{Package: "p", Vars: []Var{{Name: "N", Value: v}}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := imports(parse(t, out))
	if len(got) != 2 || got[0] != "encoding/json" || got[1] != ImportPath {
		t.Fatalf("imports = %v", got)
	}
	if !strings.Contains(string(out), `gobound.Scalar(json.Number("12.50"))`) || !strings.Contains(string(out), "gobound.Scalar(int64(-3))") {
		t.Fatalf("scalars not rendered with their types:\n%s", out)
	}
}

func TestRenderValue_Scalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "gobound.Scalar(nil)"},
		{true, "gobound.Scalar(true)"},
		{7, "gobound.Scalar(7)"},
		{uint8(9), "gobound.Scalar(uint8(9))"},
		{float32(0.5), "gobound.Scalar(float32(0.5))"},
		{1e21, "gobound.Scalar(1e+21)"},
		{"raw", `gobound.Scalar("raw")`},
	}
	for _, tc := range cases {
		got, err := RenderValue(gobound.Scalar(tc.in))
		if err != nil || got != tc.want {
			t.Fatalf("RenderValue(%v) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestRenderValue_EmptyContainers(t *testing.T) {
	got, err := RenderValue(gobound.MustSeq(1, gobound.MustSeq(0), gobound.MustText(1, "")))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "gobound.MustSeq(1,\ngobound.MustSeq(0),\ngobound.MustText(1, \"\"),\n)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_Errors(t *testing.T) {
	type opaque struct{ X int }
	v := gobound.MustMap(1, gobound.KV(gobound.Text("a/b"), gobound.MustSeq(1, gobound.Scalar(opaque{1}))))
	_, err := RenderValue(v)
	if !errors.Is(err, gobound.ErrUnsupported) {
		t.Fatalf("want ErrUnsupported, got %v", err)
	}
	if e, _ := gobound.AsError(err); e == nil || e.Path != "/a~1b/0" {
		t.Fatalf("error = %v", err)
	}
	if _, err := RenderValue(gobound.Scalar(0.0 / zero())); err == nil {
		t.Fatalf("NaN must be rejected")
	}
	if _, err := RenderFile(File{Package: "1bad"}); err == nil {
		t.Fatalf("invalid package accepted")
	}
	if _, err := RenderFile(File{Package: "ok", Vars: []Var{{Name: "not valid"}}}); err == nil {
		t.Fatalf("invalid variable name accepted")
	}
}

func zero() float64 { return 0 }
