// Package health aggregates resource samples, dependency probes, and
// integration tests into ranked service health reports.
//
// The package implements four report kinds, each backed by the same
// three-valued status scale: a basic report driven by resource and
// error-rate thresholds, a detailed report adding uptime, samples, and
// service metrics, a dependencies report listing per-dependency probe
// outcomes, and an integration test report listing per-test outcomes with
// a pass/fail/skip summary.
//
// # Core Concepts
//
// Status is the ranked scale: Healthy, Degraded, or Unhealthy, combined
// worst-wins. A Probe checks one external dependency and a Test exercises
// one end-to-end flow; both are registered once at startup and executed
// concurrently per report, with failures isolated so one broken check
// never hides the others.
//
// # Basic Usage
//
//	monitor, err := health.NewMonitor(health.MonitorConfig{
//	    Service: "user-service",
//	    Version: "1.2.0",
//	    Sampler: sysinfo.NewSystem(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := monitor.Basic(ctx)
//	if err == nil && resp.Status == health.StatusUnhealthy {
//	    log.Printf("service unhealthy")
//	}
//
// # Dependencies and Integration Tests
//
// Register probes and tests during startup:
//
//	monitor.RegisterDependency(probes.SQL("postgres-db", db))
//	monitor.RegisterDependency(probes.TCP("redis-cache", "localhost:6379", health.DependencyCache))
//	monitor.RegisterTest(health.NewTestFunc("user-creation-flow", runUserCreation))
//
//	report, err := monitor.Dependencies(ctx)
//
// Probe results keep registration order, so report consumers can rely on
// stable entry positions.
//
// # HTTP Endpoints
//
// The package provides handlers for the four report endpoints:
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, monitor)
//	// GET /health
//	// GET /health/detailed
//	// GET /health/dependencies
//	// GET /health/integration-test
//
// Unhealthy reports are served with a 503; healthy and degraded reports
// with a 200. When report assembly itself fails the handlers serve a
// kind-specific fallback payload with a 503.
package health
