// Package probes provides ready-made dependency probes for common external
// systems: SQL databases, TCP endpoints, HTTP services, and S3-compatible
// object stores.
//
// Every constructor returns a health.Probe that measures the round trip in
// milliseconds and classifies failures as unhealthy results rather than
// panicking, so one broken dependency degrades the report instead of the
// process. Probes are stateless; each Check call produces a fresh outcome.
package probes
