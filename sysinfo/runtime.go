package sysinfo

import (
	"runtime"

	"github.com/jonwraymond/healthops/health"
)

// RuntimeConfig configures the process-heap sampler.
type RuntimeConfig struct {
	// MaxAlloc is the heap allocation ceiling in bytes used as the total
	// when computing the usage percentage. If zero, the runtime's reserved
	// system memory (MemStats.Sys) is used.
	// Default: 0 (auto-detect)
	MaxAlloc uint64
}

// Runtime samples the Go process heap instead of host memory. It is a
// dependency-free fallback for environments where host-level sampling is
// unavailable (restricted containers, unit tests).
// It implements health.ResourceSampler.
type Runtime struct {
	config RuntimeConfig
}

// NewRuntime creates a new process-heap sampler.
func NewRuntime(config ...RuntimeConfig) *Runtime {
	cfg := RuntimeConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}

	return &Runtime{config: cfg}
}

// Memory samples the process heap.
func (r *Runtime) Memory() (health.MemoryUsage, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	total := r.config.MaxAlloc
	if total == 0 {
		total = stats.Sys
	}
	if total == 0 {
		return health.MemoryUsage{}, ErrMemoryUnavailable
	}

	return health.MemoryUsage{
		Used:       stats.Alloc,
		Total:      total,
		Percentage: float64(stats.Alloc) / float64(total) * 100,
	}, nil
}

// CPUPercent always reports CPU as unavailable: the Go runtime does not
// expose process CPU usage.
func (r *Runtime) CPUPercent() (float64, bool) {
	return 0, false
}

// ForceGC triggers a garbage collection. Useful in tests that need
// settled heap numbers.
func (r *Runtime) ForceGC() {
	runtime.GC()
}
