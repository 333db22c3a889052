// Package benchmarks_test measures the load, minimize and render pipeline.
//
//	go test ./benchmarks -bench . -benchmem
package benchmarks_test

import (
	"bytes"
	"strconv"
)

// generateTable builds a JSON object of n rows, each an object with a
// numeric array and a short label.
func generateTable(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * 48)
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"row`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`":{"vals":[`)
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(`,`)
		buf.WriteString(strconv.Itoa(i * 7))
		buf.WriteString(`,2.5],"label":"r`)
		buf.WriteString(strconv.Itoa(i % 10))
		buf.WriteString(`"}`)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// generateYAML renders the same rows as generateTable in block style.
func generateYAML(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * 40)
	for i := 0; i < n; i++ {
		buf.WriteString("row")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(":\n  vals: [")
		buf.WriteString(strconv.Itoa(i))
		buf.WriteString(", ")
		buf.WriteString(strconv.Itoa(i * 7))
		buf.WriteString(", 2.5]\n  label: r")
		buf.WriteString(strconv.Itoa(i % 10))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
