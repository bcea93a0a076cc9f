package health

// ResourceSampler supplies resource samples to the aggregation pipeline.
// sysinfo.System and sysinfo.Runtime implement it.
type ResourceSampler interface {
	// Memory samples current memory usage. A failure here is a pipeline
	// error: the report that needed the sample falls back.
	Memory() (MemoryUsage, error)

	// CPUPercent samples CPU utilization on a 0-100 scale. The boolean
	// reports availability. An unavailable CPU sample is not an error
	// and never fails a report.
	CPUPercent() (float64, bool)
}

// MetricsSource supplies the service metrics snapshot consumed by the
// detailed report and the error-rate rules. metrics.Store implements it.
type MetricsSource interface {
	// Snapshot returns a consistent copy of the current metrics.
	Snapshot() ServiceMetrics
}

// staticMetrics is the zero-valued source used when no MetricsSource is
// configured.
type staticMetrics struct{}

func (staticMetrics) Snapshot() ServiceMetrics {
	return ServiceMetrics{CustomMetrics: map[string]any{}}
}
