package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds a single dependency probe unless configured
// otherwise.
const DefaultProbeTimeout = 5 * time.Second

// DependencySetConfig configures probe execution.
type DependencySetConfig struct {
	// Timeout is the maximum time allowed for each probe.
	// Default: 5 seconds
	Timeout time.Duration
}

// DependencySet holds registered dependency probes and runs them as one
// isolated batch. The host service registers probes at startup; during
// request handling the set is read-only.
type DependencySet struct {
	config DependencySetConfig
	mu     sync.RWMutex
	probes map[string]Probe
	order  []string // Maintains registration order
}

// NewDependencySet creates an empty dependency set.
func NewDependencySet(config ...DependencySetConfig) *DependencySet {
	cfg := DependencySetConfig{
		Timeout: DefaultProbeTimeout,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = DefaultProbeTimeout
		}
	}

	return &DependencySet{
		config: cfg,
		probes: make(map[string]Probe),
		order:  make([]string, 0),
	}
}

// Register adds a probe to the set. Names are unique keys; registering a
// second probe under an existing name is rejected rather than silently
// replacing the first.
func (s *DependencySet) Register(probe Probe) error {
	if probe == nil {
		return ErrNilProbe
	}
	name := probe.Name()
	if name == "" {
		return ErrEmptyName
	}
	if !probe.Kind().Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDependencyType, probe.Kind())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.probes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.order = append(s.order, name)
	s.probes[name] = probe
	return nil
}

// Names returns the probe names in registration order.
func (s *DependencySet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of registered probes.
func (s *DependencySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// RunAll probes every dependency concurrently and returns one result per
// probe, ordered by registration. A probe that fails, panics, or exceeds
// the per-probe timeout contributes a synthesized unhealthy result; its
// siblings are unaffected. RunAll returns only after every probe has
// produced a result.
func (s *DependencySet) RunAll(ctx context.Context) []DependencyHealth {
	s.mu.RLock()
	probes := make([]Probe, len(s.order))
	for i, name := range s.order {
		probes[i] = s.probes[name]
	}
	s.mu.RUnlock()

	// Each goroutine writes its own slot, so the collected slice is
	// already in registration order when the group finishes.
	results := make([]DependencyHealth, len(probes))
	var wg sync.WaitGroup

	for i, probe := range probes {
		wg.Add(1)
		go func(i int, probe Probe) {
			defer wg.Done()
			results[i] = s.runProbe(ctx, probe)
		}(i, probe)
	}

	wg.Wait()
	return results
}

func (s *DependencySet) runProbe(ctx context.Context, probe Probe) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	// Use a channel to handle timeout
	resultCh := make(chan DependencyHealth, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- UnhealthyDependency(probe.Name(), probe.Kind(),
					fmt.Errorf("%w: %v", ErrProbePanic, r))
			}
		}()

		result, err := probe.Check(ctx)
		if err != nil {
			resultCh <- UnhealthyDependency(probe.Name(), probe.Kind(), err)
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return UnhealthyDependency(probe.Name(), probe.Kind(), ErrProbeTimeout)
	}
}
