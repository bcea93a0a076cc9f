package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	// statusHandlerTimeout bounds basic and detailed report assembly.
	statusHandlerTimeout = 10 * time.Second

	// batchHandlerTimeout bounds probe and test batch assembly. The
	// per-probe timeouts bound the batch first unless they are
	// configured above this envelope.
	batchHandlerTimeout = 30 * time.Second
)

// BasicHandler returns an HTTP handler serving the basic report. Any
// pipeline failure, including a panic during assembly, is converted into
// the basic fallback payload with a 503.
func BasicHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer recoverFallback(w, func() any { return FallbackBasic(m.Service()) })

		ctx, cancel := context.WithTimeout(r.Context(), statusHandlerTimeout)
		defer cancel()

		resp, err := m.Basic(ctx)
		if err == nil {
			err = writeJSON(w, StatusCode(resp.Status), resp)
		}
		if err != nil {
			serveFallback(w, FallbackBasic(m.Service()))
		}
	}
}

// DetailedHandler returns an HTTP handler serving the detailed report.
func DetailedHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer recoverFallback(w, func() any { return FallbackDetailed(m.Service()) })

		ctx, cancel := context.WithTimeout(r.Context(), statusHandlerTimeout)
		defer cancel()

		resp, err := m.Detailed(ctx)
		if err == nil {
			err = writeJSON(w, StatusCode(resp.Status), resp)
		}
		if err != nil {
			serveFallback(w, FallbackDetailed(m.Service()))
		}
	}
}

// DependenciesHandler returns an HTTP handler serving the dependencies
// report.
func DependenciesHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer recoverFallback(w, func() any { return FallbackDependencies(m.Service()) })

		ctx, cancel := context.WithTimeout(r.Context(), batchHandlerTimeout)
		defer cancel()

		resp, err := m.Dependencies(ctx)
		if err == nil {
			err = writeJSON(w, StatusCode(resp.Status), resp)
		}
		if err != nil {
			serveFallback(w, FallbackDependencies(m.Service()))
		}
	}
}

// IntegrationTestHandler returns an HTTP handler serving the integration
// test report.
func IntegrationTestHandler(m *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer recoverFallback(w, func() any { return FallbackIntegrationTests(m.Service()) })

		ctx, cancel := context.WithTimeout(r.Context(), batchHandlerTimeout)
		defer cancel()

		resp, err := m.IntegrationTests(ctx)
		if err == nil {
			err = writeJSON(w, StatusCode(resp.Status), resp)
		}
		if err != nil {
			serveFallback(w, FallbackIntegrationTests(m.Service()))
		}
	}
}

// RegisterHandlers registers the four report handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, m *Monitor) {
	mux.HandleFunc("GET /health", BasicHandler(m))
	mux.HandleFunc("GET /health/detailed", DetailedHandler(m))
	mux.HandleFunc("GET /health/dependencies", DependenciesHandler(m))
	mux.HandleFunc("GET /health/integration-test", IntegrationTestHandler(m))
}

// writeJSON marshals the payload before touching the ResponseWriter so a
// marshal failure can still become a fallback with a 503 instead of a
// truncated 200 body.
func writeJSON(w http.ResponseWriter, code int, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
	return nil
}

// serveFallback writes a fallback payload with a 503. Fallback payloads
// carry no caller-supplied data, so marshaling them cannot fail.
func serveFallback(w http.ResponseWriter, payload any) {
	body, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write(body)
}

func recoverFallback(w http.ResponseWriter, fallback func() any) {
	if r := recover(); r != nil {
		serveFallback(w, fallback())
	}
}
