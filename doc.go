// Package gobound provides fixed-capacity containers and a pipeline that turns
// a nested, dynamically sized structure into an equivalent whose every
// sequence, text and map is sized to what it actually holds.
//
// Containers:
//
//   - [Vector]: ordered, capacity fixed at construction, never reallocates
//   - [String]: byte string with a terminator slot counted in its capacity
//   - [Map]: insertion-ordered association list with linear-scan lookup
//   - [Value]: tagged variant (scalar, sequence, text, map) used for nesting
//
// Pipeline:
//
//	stacked, err := gobound.Stackify(1024, input) // dynamic -> bounded, uniform capacity
//	shape := gobound.Measure(stacked)             // per-level max occupancy
//	tight, err := gobound.Compact(shape, stacked) // rebuild at exactly those capacities
//
// [Minimize] runs all three. [Promote], [PromoteSpan] and [PromoteString] pin a
// computed result in write-once, process-lifetime storage.
//
// Design policy:
//   - Keep the public API in the root package; loaders live under source/,
//     code generation under internal/gen and the CLI under cmd/gobound.
//   - Failures are local and immediate: nothing is truncated or retried. Every
//     error wraps one of the Err* sentinels and, inside the pipeline, carries
//     the JSON Pointer of the offending container.
//   - Containers are not synchronized. Build once, then share read-only.
package gobound
