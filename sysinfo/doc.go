// Package sysinfo provides resource samplers for health reporting.
//
// System samples host-wide memory and CPU through gopsutil. Runtime is a
// dependency-free fallback that samples the Go heap. Both implement
// health.ResourceSampler.
package sysinfo
