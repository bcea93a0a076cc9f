package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/healthops/observe"
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// Service is the reporting service name. Required.
	Service string

	// Version is the reporting service version.
	Version string

	// Sampler supplies resource samples. Required.
	Sampler ResourceSampler

	// Metrics supplies the service metrics snapshot. When nil the
	// reports carry zero-valued metrics.
	Metrics MetricsSource

	// Thresholds are the system status cutoffs. The zero value selects
	// DefaultThresholds.
	Thresholds Thresholds

	// ProbeTimeout is the maximum time allowed for each dependency probe.
	// Default: 5 seconds
	ProbeTimeout time.Duration

	// TestTimeout is the maximum time allowed for each integration test.
	// Default: 5 seconds
	TestTimeout time.Duration

	// CacheTTL is how long a finished probe or test batch may be served
	// to later reports before re-running. Zero disables reuse entirely;
	// concurrent requests still share a single in-flight batch.
	CacheTTL time.Duration

	// Environment names the deployment environment in detailed reports.
	Environment string

	// Build names the deployed build in detailed reports.
	Build string

	// Logger receives probe failures and pipeline errors.
	// If nil, logging is disabled.
	Logger observe.Logger

	// Now overrides the time source, for tests.
	Now func() time.Time
}

// Validate checks the configuration.
func (c MonitorConfig) Validate() error {
	if c.Service == "" {
		return ErrNoService
	}
	if c.Sampler == nil {
		return ErrNoSampler
	}
	return nil
}

// Monitor aggregates resource samples, dependency probes, and integration
// tests into the four report kinds. Construct one per service and register
// probes and tests at startup; the monitor is safe for concurrent report
// assembly afterwards.
type Monitor struct {
	config  MonitorConfig
	metrics MetricsSource
	logger  observe.Logger
	now     func() time.Time
	start   time.Time

	deps  *DependencySet
	tests *TestSet

	flight singleflight.Group // collapses concurrent probe/test batches

	mu            sync.RWMutex
	depsCached    []DependencyHealth
	depsCachedAt  time.Time
	testsCached   *testBatch
	testsCachedAt time.Time
}

type testBatch struct {
	results []IntegrationTestResult
	summary TestSummary
}

// NewMonitor creates a Monitor from the configuration.
func NewMonitor(config MonitorConfig) (*Monitor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Thresholds == (Thresholds{}) {
		config.Thresholds = DefaultThresholds()
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = staticMetrics{}
	}
	logger := config.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Monitor{
		config:  config,
		metrics: metrics,
		logger:  logger,
		now:     now,
		start:   now(),
		deps:    NewDependencySet(DependencySetConfig{Timeout: config.ProbeTimeout}),
		tests:   NewTestSet(TestSetConfig{Timeout: config.TestTimeout}),
	}, nil
}

// Service returns the configured service name.
func (m *Monitor) Service() string {
	return m.config.Service
}

// RegisterDependency adds a dependency probe. Register during startup,
// before the monitor starts serving reports.
func (m *Monitor) RegisterDependency(probe Probe) error {
	return m.deps.Register(probe)
}

// RegisterTest adds an integration test. Register during startup, before
// the monitor starts serving reports.
func (m *Monitor) RegisterTest(test Test) error {
	return m.tests.Register(test)
}

// DependencyNames returns the registered dependency names in registration
// order.
func (m *Monitor) DependencyNames() []string {
	return m.deps.Names()
}

// TestNames returns the registered test names in registration order.
func (m *Monitor) TestNames() []string {
	return m.tests.Names()
}

// Basic assembles the basic report: the system verdict plus the service
// identity.
func (m *Monitor) Basic(ctx context.Context) (Response, error) {
	status, err := m.systemStatus(ctx)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Status:    status,
		Timestamp: NewUTCTime(m.now()),
		Service:   m.config.Service,
		Version:   m.config.Version,
	}, nil
}

// Detailed assembles the detailed report with uptime, resource samples,
// the metrics snapshot, and deployment identity. The memory sample that
// feeds the verdict is the one reported, so payload and status never
// disagree.
func (m *Monitor) Detailed(ctx context.Context) (DetailedResponse, error) {
	memory, err := m.sampleMemory(ctx)
	if err != nil {
		return DetailedResponse{}, err
	}
	cpu, cpuOK := m.config.Sampler.CPUPercent()
	snapshot := m.metrics.Snapshot()
	now := m.now()

	resp := DetailedResponse{
		Response: Response{
			Status:    m.config.Thresholds.SystemStatus(memory, cpu, cpuOK, snapshot),
			Timestamp: NewUTCTime(now),
			Service:   m.config.Service,
			Version:   m.config.Version,
		},
		Uptime:      int64(now.Sub(m.start).Seconds()),
		Memory:      memory,
		Metrics:     snapshot,
		Environment: m.config.Environment,
		Build:       m.config.Build,
	}
	if cpuOK {
		resp.CPU = &cpu
	}
	return resp, nil
}

// Dependencies probes every registered dependency and assembles the
// dependencies report. Its status is the dependency combination, not the
// system verdict, and resource samples play no part in it.
func (m *Monitor) Dependencies(ctx context.Context) (DependenciesResponse, error) {
	results, err := m.dependencyResults(ctx)
	if err != nil {
		return DependenciesResponse{}, err
	}

	return DependenciesResponse{
		Response: Response{
			Status:    DependenciesStatus(results),
			Timestamp: NewUTCTime(m.now()),
			Service:   m.config.Service,
			Version:   m.config.Version,
		},
		Dependencies: results,
	}, nil
}

// IntegrationTests runs every registered test and assembles the
// integration test report. Its status is the summary combination.
func (m *Monitor) IntegrationTests(ctx context.Context) (IntegrationTestResponse, error) {
	batch, err := m.testResults(ctx)
	if err != nil {
		return IntegrationTestResponse{}, err
	}

	return IntegrationTestResponse{
		Response: Response{
			Status:    TestsStatus(batch.summary),
			Timestamp: NewUTCTime(m.now()),
			Service:   m.config.Service,
			Version:   m.config.Version,
		},
		Tests:   batch.results,
		Summary: batch.summary,
	}, nil
}

func (m *Monitor) systemStatus(ctx context.Context) (Status, error) {
	memory, err := m.sampleMemory(ctx)
	if err != nil {
		return StatusUnhealthy, err
	}
	cpu, cpuOK := m.config.Sampler.CPUPercent()
	return m.config.Thresholds.SystemStatus(memory, cpu, cpuOK, m.metrics.Snapshot()), nil
}

func (m *Monitor) sampleMemory(ctx context.Context) (MemoryUsage, error) {
	memory, err := m.config.Sampler.Memory()
	if err != nil {
		m.logger.Error(ctx, "memory sample failed",
			observe.Field{Key: "error", Value: err.Error()})
		return MemoryUsage{}, fmt.Errorf("health: sample memory: %w", err)
	}
	return memory, nil
}

// dependencyResults returns one result per registered probe. Concurrent
// callers share a single batch, and a finished batch is reused within
// CacheTTL. The batch itself is detached from any one caller's
// cancellation; the per-probe timeouts bound it.
func (m *Monitor) dependencyResults(ctx context.Context) ([]DependencyHealth, error) {
	if cached, ok := m.cachedDependencies(); ok {
		return cached, nil
	}

	ch := m.flight.DoChan("dependencies", func() (any, error) {
		batchCtx := context.WithoutCancel(ctx)
		results := m.deps.RunAll(batchCtx)
		for _, r := range results {
			if r.Status != StatusHealthy {
				m.logger.Warn(batchCtx, "dependency check not healthy",
					observe.Field{Key: "dependency", Value: r.Name},
					observe.Field{Key: "status", Value: r.Status.String()},
					observe.Field{Key: "error", Value: r.Error})
			}
		}
		m.storeDependencies(results)
		return results, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]DependencyHealth), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Monitor) testResults(ctx context.Context) (testBatch, error) {
	if cached, ok := m.cachedTests(); ok {
		return cached, nil
	}

	ch := m.flight.DoChan("integration-tests", func() (any, error) {
		batchCtx := context.WithoutCancel(ctx)
		results, summary := m.tests.RunAll(batchCtx)
		for _, r := range results {
			if r.Status == StatusUnhealthy {
				m.logger.Warn(batchCtx, "integration test failed",
					observe.Field{Key: "test", Value: r.Name},
					observe.Field{Key: "error", Value: r.Error})
			}
		}
		batch := testBatch{results: results, summary: summary}
		m.storeTests(batch)
		return batch, nil
	})

	select {
	case res := <-ch:
		return res.Val.(testBatch), nil
	case <-ctx.Done():
		return testBatch{}, ctx.Err()
	}
}

func (m *Monitor) cachedDependencies() ([]DependencyHealth, bool) {
	if m.config.CacheTTL <= 0 {
		return nil, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.depsCached == nil || m.now().Sub(m.depsCachedAt) >= m.config.CacheTTL {
		return nil, false
	}
	return m.depsCached, true
}

func (m *Monitor) storeDependencies(results []DependencyHealth) {
	if m.config.CacheTTL <= 0 {
		return
	}

	m.mu.Lock()
	m.depsCached = results
	m.depsCachedAt = m.now()
	m.mu.Unlock()
}

func (m *Monitor) cachedTests() (testBatch, bool) {
	if m.config.CacheTTL <= 0 {
		return testBatch{}, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.testsCached == nil || m.now().Sub(m.testsCachedAt) >= m.config.CacheTTL {
		return testBatch{}, false
	}
	return *m.testsCached, true
}

func (m *Monitor) storeTests(batch testBatch) {
	if m.config.CacheTTL <= 0 {
		return
	}

	m.mu.Lock()
	m.testsCached = &batch
	m.testsCachedAt = m.now()
	m.mu.Unlock()
}
