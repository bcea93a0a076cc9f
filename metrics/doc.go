// Package metrics maintains the service request metrics consumed by health
// reports.
//
// Store is the mutable holder: the host records traffic through
// Middleware or RecordRequest, publishes gauges through SetCustom, and can
// bulk-update through Apply. The health pipeline reads it through
// health.MetricsSource. Instruments optionally mirrors recordings onto
// OpenTelemetry so dashboards and the health error-rate rules see the same
// traffic.
package metrics
