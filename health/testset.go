package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTestTimeout bounds a single integration test unless configured
// otherwise.
const DefaultTestTimeout = 5 * time.Second

// TestSetConfig configures integration test execution.
type TestSetConfig struct {
	// Timeout is the maximum time allowed for each test.
	// Default: 5 seconds
	Timeout time.Duration
}

// TestSet holds registered integration tests and runs them as one
// isolated batch, mirroring DependencySet.
type TestSet struct {
	config TestSetConfig
	mu     sync.RWMutex
	tests  map[string]Test
	order  []string // Maintains registration order
}

// NewTestSet creates an empty test set.
func NewTestSet(config ...TestSetConfig) *TestSet {
	cfg := TestSetConfig{
		Timeout: DefaultTestTimeout,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = DefaultTestTimeout
		}
	}

	return &TestSet{
		config: cfg,
		tests:  make(map[string]Test),
		order:  make([]string, 0),
	}
}

// Register adds a test to the set, rejecting empty and duplicate names.
func (s *TestSet) Register(test Test) error {
	if test == nil {
		return ErrNilTest
	}
	name := test.Name()
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tests[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.order = append(s.order, name)
	s.tests[name] = test
	return nil
}

// Names returns the test names in registration order.
func (s *TestSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of registered tests.
func (s *TestSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// RunAll executes every test concurrently and returns the results in
// registration order together with their summary. A test that fails,
// panics, or exceeds the per-test timeout contributes a synthesized failed
// result with zero duration; its siblings are unaffected.
func (s *TestSet) RunAll(ctx context.Context) ([]IntegrationTestResult, TestSummary) {
	s.mu.RLock()
	tests := make([]Test, len(s.order))
	for i, name := range s.order {
		tests[i] = s.tests[name]
	}
	s.mu.RUnlock()

	results := make([]IntegrationTestResult, len(tests))
	var wg sync.WaitGroup

	for i, test := range tests {
		wg.Add(1)
		go func(i int, test Test) {
			defer wg.Done()
			results[i] = s.runTest(ctx, test)
		}(i, test)
	}

	wg.Wait()
	return results, Summarize(results)
}

func (s *TestSet) runTest(ctx context.Context, test Test) IntegrationTestResult {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	resultCh := make(chan IntegrationTestResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- FailedTest(test.Name(), 0,
					fmt.Errorf("%w: %v", ErrTestPanic, r))
			}
		}()

		result, err := test.Run(ctx)
		if err != nil {
			resultCh <- FailedTest(test.Name(), 0, err)
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return FailedTest(test.Name(), 0, ErrTestTimeout)
	}
}
