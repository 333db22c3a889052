package benchmarks_test

import (
	"context"
	"testing"

	"github.com/reoring/gobound"
	"github.com/reoring/gobound/internal/gen"
	"github.com/reoring/gobound/source"
)

func loadTable(b *testing.B, n int) any {
	b.Helper()
	doc, err := source.LoadBytes(context.Background(), generateTable(n), source.Options{NumberMode: source.NumberInt64OrFloat64})
	if err != nil {
		b.Fatal(err)
	}
	return doc
}

func Benchmark_Stackify_Table(b *testing.B) {
	doc := loadTable(b, 500)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gobound.Stackify(1024, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Measure_Table(b *testing.B) {
	v, err := gobound.Stackify(1024, loadTable(b, 500))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gobound.Measure(v)
	}
}

func Benchmark_Compact_Table(b *testing.B) {
	v, err := gobound.Stackify(1024, loadTable(b, 500))
	if err != nil {
		b.Fatal(err)
	}
	shape := gobound.Measure(v)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gobound.Compact(shape, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Minimize_Table(b *testing.B) {
	doc := loadTable(b, 500)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gobound.Minimize(1024, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_RenderFile_Table(b *testing.B) {
	v, err := gobound.Minimize(1024, loadTable(b, 500))
	if err != nil {
		b.Fatal(err)
	}
	f := gen.File{Package: "tables", Vars: []gen.Var{{Name: "Table", Value: v}}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.RenderFile(f); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Promote_Get(b *testing.B) {
	doc := loadTable(b, 100)
	s := gobound.Promote(func() (gobound.Value, error) { return gobound.Minimize(256, doc) })
	if _, err := s.Get(); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get()
	}
}
