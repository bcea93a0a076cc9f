// Package observe provides observability primitives for health report assembly.
//
// It is a pure instrumentation library: no probing, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into report assembly
// or server middleware.
package observe
