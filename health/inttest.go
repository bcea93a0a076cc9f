package health

import "context"

// IntegrationTestResult is the outcome of one registered integration
// test. Like DependencyHealth it is produced fresh on every run.
type IntegrationTestResult struct {
	// Name identifies the test.
	Name string `json:"name"`

	// Status is the test outcome on the health scale.
	Status Status `json:"status"`

	// Duration is the test execution time in milliseconds.
	Duration float64 `json:"duration"`

	// Error describes the failure when the test did not pass.
	Error string `json:"error,omitempty"`

	// Details carries test-specific information.
	Details map[string]any `json:"details,omitempty"`
}

// PassedTest creates a healthy test result.
func PassedTest(name string, durationMS float64) IntegrationTestResult {
	return IntegrationTestResult{
		Name:     name,
		Status:   StatusHealthy,
		Duration: durationMS,
	}
}

// FailedTest creates an unhealthy test result carrying the test error.
func FailedTest(name string, durationMS float64, err error) IntegrationTestResult {
	r := IntegrationTestResult{
		Name:     name,
		Status:   StatusUnhealthy,
		Duration: durationMS,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// SkippedTest creates a degraded test result, which the summary counts as
// skipped.
func SkippedTest(name string, reason string) IntegrationTestResult {
	return IntegrationTestResult{
		Name:   name,
		Status: StatusDegraded,
		Error:  reason,
	}
}

// WithDetails attaches test-specific details.
func (r IntegrationTestResult) WithDetails(details map[string]any) IntegrationTestResult {
	r.Details = details
	return r
}

// TestSummary counts test outcomes by bucket. It is always derived from a
// result sequence, never set directly, so Total equals
// Passed + Failed + Skipped.
type TestSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Summarize classifies each result into exactly one bucket: healthy counts
// as passed, unhealthy as failed, and anything else as skipped.
func Summarize(results []IntegrationTestResult) TestSummary {
	summary := TestSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusHealthy:
			summary.Passed++
		case StatusUnhealthy:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}
	return summary
}

// Test exercises one end-to-end service flow. Implementations report
// failure through the error return; the runner converts errors into failed
// results without aborting sibling tests.
type Test interface {
	// Name returns the test name.
	Name() string

	// Run executes the test and reports its outcome.
	Run(ctx context.Context) (IntegrationTestResult, error)
}

// TestFunc is an adapter to allow ordinary functions to be used as Tests.
type TestFunc struct {
	name string
	fn   func(context.Context) (IntegrationTestResult, error)
}

// NewTestFunc creates a new TestFunc.
func NewTestFunc(name string, fn func(context.Context) (IntegrationTestResult, error)) *TestFunc {
	return &TestFunc{name: name, fn: fn}
}

// Name returns the test name.
func (t *TestFunc) Name() string {
	return t.name
}

// Run executes the test.
func (t *TestFunc) Run(ctx context.Context) (IntegrationTestResult, error) {
	return t.fn(ctx)
}
