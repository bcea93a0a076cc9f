package health

import (
	"net/http"
	"time"
)

// Response is the basic report payload shared by all four report kinds.
type Response struct {
	// Status is the overall verdict for the report.
	Status Status `json:"status"`

	// Timestamp is when the report was assembled.
	Timestamp UTCTime `json:"timestamp"`

	// Service is the reporting service name.
	Service string `json:"service"`

	// Version is the reporting service version.
	Version string `json:"version,omitempty"`

	// Error carries the fallback message when report assembly failed.
	Error string `json:"error,omitempty"`
}

// DetailedResponse extends the basic payload with resource samples and
// service metrics.
type DetailedResponse struct {
	Response

	// Uptime is whole seconds since the monitor was constructed.
	Uptime int64 `json:"uptime"`

	// Memory is the sampled memory usage.
	Memory MemoryUsage `json:"memory"`

	// CPU is the sampled CPU percentage, nil when unavailable.
	CPU *float64 `json:"cpu,omitempty"`

	// Metrics is the current service metrics snapshot.
	Metrics ServiceMetrics `json:"metrics"`

	// Environment names the deployment environment when configured.
	Environment string `json:"environment,omitempty"`

	// Build names the deployed build when configured.
	Build string `json:"build,omitempty"`
}

// DependenciesResponse extends the basic payload with per-dependency
// outcomes in registration order. Its status is the dependency
// combination, not the system verdict.
type DependenciesResponse struct {
	Response

	Dependencies []DependencyHealth `json:"dependencies"`
}

// IntegrationTestResponse extends the basic payload with per-test
// outcomes in registration order and their summary. Its status is the
// test combination, not the system verdict.
type IntegrationTestResponse struct {
	Response

	Tests   []IntegrationTestResult `json:"tests"`
	Summary TestSummary             `json:"summary"`
}

// StatusCode maps a report status to its transport status code. Only
// unhealthy maps to 503. Degraded stays a payload-level signal and is
// reported with 200, so monitoring systems probing liveness through the
// code are not tripped by partial degradation.
func StatusCode(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// Fallback messages for pipeline failures. These are fixed wire values.
const (
	fallbackBasicMessage        = "Health check failed"
	fallbackDetailedMessage     = "Detailed health check failed"
	fallbackDependenciesMessage = "Dependencies health check failed"
	fallbackTestsMessage        = "Integration tests failed"
)

// FallbackBasic is the payload served when assembling the basic report
// itself fails. It always pairs with a 503.
func FallbackBasic(service string) Response {
	return Response{
		Status:    StatusUnhealthy,
		Timestamp: NewUTCTime(time.Now()),
		Service:   service,
		Error:     fallbackBasicMessage,
	}
}

// FallbackDetailed is the payload served when assembling the detailed
// report fails. It carries only the basic fields; no zeroed samples are
// synthesized.
func FallbackDetailed(service string) Response {
	return Response{
		Status:    StatusUnhealthy,
		Timestamp: NewUTCTime(time.Now()),
		Service:   service,
		Error:     fallbackDetailedMessage,
	}
}

// FallbackDependencies is the payload served when assembling the
// dependencies report fails. The dependency list is present and empty.
func FallbackDependencies(service string) DependenciesResponse {
	return DependenciesResponse{
		Response: Response{
			Status:    StatusUnhealthy,
			Timestamp: NewUTCTime(time.Now()),
			Service:   service,
			Error:     fallbackDependenciesMessage,
		},
		Dependencies: []DependencyHealth{},
	}
}

// FallbackIntegrationTests is the payload served when assembling the
// integration test report fails. The test list is present and empty and
// the summary is zero valued.
func FallbackIntegrationTests(service string) IntegrationTestResponse {
	return IntegrationTestResponse{
		Response: Response{
			Status:    StatusUnhealthy,
			Timestamp: NewUTCTime(time.Now()),
			Service:   service,
			Error:     fallbackTestsMessage,
		},
		Tests: []IntegrationTestResult{},
	}
}
