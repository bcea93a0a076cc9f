package health

// Thresholds holds the cutoffs for the system status rules. All
// comparisons are strictly greater-than, so a sample exactly at a
// threshold does not trigger it.
type Thresholds struct {
	// MemoryUnhealthy and MemoryDegraded are memory percentage cutoffs.
	MemoryUnhealthy float64
	MemoryDegraded  float64

	// CPUUnhealthy and CPUDegraded are CPU percentage cutoffs.
	CPUUnhealthy float64
	CPUDegraded  float64

	// ErrorRateUnhealthy and ErrorRateDegraded are request failure
	// fraction cutoffs in [0, 1].
	ErrorRateUnhealthy float64
	ErrorRateDegraded  float64
}

// DefaultThresholds returns the standard cutoffs: memory and CPU above 90%
// unhealthy and above 80% degraded, error rate above 0.5 unhealthy and
// above 0.1 degraded.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MemoryUnhealthy:    90,
		MemoryDegraded:     80,
		CPUUnhealthy:       90,
		CPUDegraded:        80,
		ErrorRateUnhealthy: 0.5,
		ErrorRateDegraded:  0.1,
	}
}

// SystemStatus evaluates resource samples and service metrics against the
// thresholds. The rules apply in fixed priority order: resource
// exhaustion is checked before the error rate, and within each pair the
// unhealthy cutoff before the degraded one. cpuOK reports whether a CPU
// sample is available; an absent sample never influences the verdict.
func (t Thresholds) SystemStatus(memory MemoryUsage, cpu float64, cpuOK bool, metrics ServiceMetrics) Status {
	if memory.Percentage > t.MemoryUnhealthy || (cpuOK && cpu > t.CPUUnhealthy) {
		return StatusUnhealthy
	}
	if memory.Percentage > t.MemoryDegraded || (cpuOK && cpu > t.CPUDegraded) {
		return StatusDegraded
	}
	if metrics.ErrorRate > t.ErrorRateUnhealthy {
		return StatusUnhealthy
	}
	if metrics.ErrorRate > t.ErrorRateDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// DependenciesStatus combines per-dependency results.
// Returns Unhealthy if any dependency is unhealthy.
// Returns Degraded if any dependency is degraded but none are unhealthy.
// Returns Healthy otherwise, including for an empty set.
func DependenciesStatus(results []DependencyHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// TestsStatus maps a test summary onto the health scale: any failure is
// unhealthy, any skip without failures is degraded, everything else is
// healthy.
func TestsStatus(summary TestSummary) Status {
	if summary.Failed > 0 {
		return StatusUnhealthy
	}
	if summary.Skipped > 0 {
		return StatusDegraded
	}
	return StatusHealthy
}
