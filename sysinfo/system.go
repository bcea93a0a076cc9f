package sysinfo

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/jonwraymond/healthops/health"
)

// SystemConfig configures the system-wide resource sampler.
type SystemConfig struct {
	// CPUWindow is the measurement interval for CPU sampling. A positive
	// window blocks for its duration and measures usage across it. Zero
	// selects non-blocking mode: the first call primes the counters and
	// reports CPU as unavailable, subsequent calls return usage since the
	// previous call.
	// Default: 0 (non-blocking)
	CPUWindow time.Duration
}

// System samples host-wide memory and CPU usage.
// It implements health.ResourceSampler.
type System struct {
	config SystemConfig

	mu     sync.Mutex
	primed bool
}

// NewSystem creates a new system-wide resource sampler.
func NewSystem(config ...SystemConfig) *System {
	cfg := SystemConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.CPUWindow < 0 {
		cfg.CPUWindow = 0
	}

	return &System{config: cfg}
}

// Memory samples host virtual memory usage.
func (s *System) Memory() (health.MemoryUsage, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return health.MemoryUsage{}, fmt.Errorf("%w: %v", ErrMemoryUnavailable, err)
	}

	return health.MemoryUsage{
		Used:       vm.Used,
		Total:      vm.Total,
		Percentage: vm.UsedPercent,
	}, nil
}

// CPUPercent samples host CPU usage on a 0-100 scale. The boolean reports
// availability: sampling failures and the priming call of non-blocking mode
// both return false, never an error.
func (s *System) CPUPercent() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pcts, err := cpu.Percent(s.config.CPUWindow, false)
	if err != nil || len(pcts) == 0 {
		return 0, false
	}

	if s.config.CPUWindow == 0 && !s.primed {
		// The first non-blocking sample has no reference window.
		s.primed = true
		return 0, false
	}

	return pcts[0], true
}
