package health

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// TestStatusCode verifies the transport mapping: only unhealthy is 503.
func TestStatusCode(t *testing.T) {
	tests := []struct {
		status Status
		want   int
	}{
		{StatusHealthy, http.StatusOK},
		{StatusDegraded, http.StatusOK},
		{StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		if got := StatusCode(tc.status); got != tc.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

// TestFallbackBasic verifies the basic fallback payload.
func TestFallbackBasic(t *testing.T) {
	resp := FallbackBasic("user-service")

	if resp.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %v", resp.Status)
	}
	if resp.Service != "user-service" {
		t.Errorf("expected service name, got %q", resp.Service)
	}
	if resp.Error != "Health check failed" {
		t.Errorf("expected fixed fallback message, got %q", resp.Error)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected timestamp to be stamped")
	}
	if resp.Version != "" {
		t.Errorf("fallbacks carry no version, got %q", resp.Version)
	}
}

// TestFallbackDetailed verifies the detailed fallback carries only the
// basic fields.
func TestFallbackDetailed(t *testing.T) {
	resp := FallbackDetailed("user-service")

	if resp.Error != "Detailed health check failed" {
		t.Errorf("expected fixed fallback message, got %q", resp.Error)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "memory") {
		t.Errorf("detailed fallback must not synthesize samples: %s", data)
	}
}

// TestFallbackDependencies verifies the list is present and empty.
func TestFallbackDependencies(t *testing.T) {
	resp := FallbackDependencies("user-service")

	if resp.Error != "Dependencies health check failed" {
		t.Errorf("expected fixed fallback message, got %q", resp.Error)
	}
	if resp.Dependencies == nil || len(resp.Dependencies) != 0 {
		t.Errorf("expected empty dependency list, got %v", resp.Dependencies)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"dependencies":[]`) {
		t.Errorf("expected empty JSON array, got %s", data)
	}
}

// TestFallbackIntegrationTests verifies the empty list and zero summary.
func TestFallbackIntegrationTests(t *testing.T) {
	resp := FallbackIntegrationTests("user-service")

	if resp.Error != "Integration tests failed" {
		t.Errorf("expected fixed fallback message, got %q", resp.Error)
	}
	if resp.Tests == nil || len(resp.Tests) != 0 {
		t.Errorf("expected empty test list, got %v", resp.Tests)
	}
	if resp.Summary != (TestSummary{}) {
		t.Errorf("expected zero summary, got %+v", resp.Summary)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"tests":[]`) {
		t.Errorf("expected empty JSON array, got %s", data)
	}
	if !strings.Contains(string(data), `"summary":{"total":0,"passed":0,"failed":0,"skipped":0}`) {
		t.Errorf("expected zero summary in JSON, got %s", data)
	}
}

// TestResponse_JSONOmissions verifies optional fields vanish when unset.
func TestResponse_JSONOmissions(t *testing.T) {
	data, err := json.Marshal(Response{
		Status:  StatusHealthy,
		Service: "user-service",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	body := string(data)
	if strings.Contains(body, "version") {
		t.Errorf("expected version omitted, got %s", body)
	}
	if strings.Contains(body, "error") {
		t.Errorf("expected error omitted, got %s", body)
	}
}

// TestDependencyHealth_JSONOmissions verifies nil measurements vanish.
func TestDependencyHealth_JSONOmissions(t *testing.T) {
	data, err := json.Marshal(UnhealthyDependency("orders-db", DependencyDatabase, nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	body := string(data)
	if strings.Contains(body, "response_time") {
		t.Errorf("expected response_time omitted, got %s", body)
	}
	if strings.Contains(body, "metadata") {
		t.Errorf("expected metadata omitted, got %s", body)
	}
}
