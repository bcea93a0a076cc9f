package health

import (
	"context"
	"time"
)

// DependencyType classifies the external system a probe checks.
type DependencyType string

const (
	// DependencyDatabase is a relational or document store.
	DependencyDatabase DependencyType = "database"
	// DependencyCache is an in-memory cache such as Redis.
	DependencyCache DependencyType = "cache"
	// DependencyMessageQueue is a message broker.
	DependencyMessageQueue DependencyType = "message_queue"
	// DependencyExternalAPI is a remote HTTP service.
	DependencyExternalAPI DependencyType = "external_api"
	// DependencyStorage is a blob or object store.
	DependencyStorage DependencyType = "storage"
)

// Valid reports whether t is one of the recognized dependency kinds.
func (t DependencyType) Valid() bool {
	switch t {
	case DependencyDatabase, DependencyCache, DependencyMessageQueue,
		DependencyExternalAPI, DependencyStorage:
		return true
	default:
		return false
	}
}

// DependencyHealth is the outcome of probing a single dependency. A fresh
// value is produced on every probe invocation and never persisted between
// requests.
type DependencyHealth struct {
	// Name identifies the dependency.
	Name string `json:"name"`

	// Type is the dependency classification.
	Type DependencyType `json:"type"`

	// Status is the probed health status.
	Status Status `json:"status"`

	// ResponseTime is the measured round trip in milliseconds, nil when
	// the probe did not complete a measurement.
	ResponseTime *float64 `json:"response_time,omitempty"`

	// LastChecked is when the probe ran.
	LastChecked UTCTime `json:"last_checked"`

	// Error describes the failure when the dependency is not healthy.
	Error string `json:"error,omitempty"`

	// Metadata carries probe-specific details such as pool statistics.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HealthyDependency creates a healthy probe outcome.
func HealthyDependency(name string, kind DependencyType) DependencyHealth {
	return DependencyHealth{
		Name:        name,
		Type:        kind,
		Status:      StatusHealthy,
		LastChecked: NewUTCTime(time.Now()),
	}
}

// DegradedDependency creates a degraded probe outcome.
func DegradedDependency(name string, kind DependencyType, message string) DependencyHealth {
	return DependencyHealth{
		Name:        name,
		Type:        kind,
		Status:      StatusDegraded,
		LastChecked: NewUTCTime(time.Now()),
		Error:       message,
	}
}

// UnhealthyDependency creates an unhealthy probe outcome carrying the
// probe error.
func UnhealthyDependency(name string, kind DependencyType, err error) DependencyHealth {
	d := DependencyHealth{
		Name:        name,
		Type:        kind,
		Status:      StatusUnhealthy,
		LastChecked: NewUTCTime(time.Now()),
	}
	if err != nil {
		d.Error = err.Error()
	}
	return d
}

// WithResponseTime sets the measured round trip in milliseconds.
func (d DependencyHealth) WithResponseTime(ms float64) DependencyHealth {
	d.ResponseTime = &ms
	return d
}

// WithMetadata attaches probe-specific metadata.
func (d DependencyHealth) WithMetadata(metadata map[string]any) DependencyHealth {
	d.Metadata = metadata
	return d
}

// Probe checks one external dependency. Implementations report failure
// through the error return; the runner converts errors into unhealthy
// results, so a probe never aborts its siblings.
type Probe interface {
	// Name returns the dependency name.
	Name() string

	// Kind returns the dependency classification.
	Kind() DependencyType

	// Check probes the dependency and reports its health.
	Check(ctx context.Context) (DependencyHealth, error)
}

// ProbeFunc is an adapter to allow ordinary functions to be used as Probes.
type ProbeFunc struct {
	name string
	kind DependencyType
	fn   func(context.Context) (DependencyHealth, error)
}

// NewProbeFunc creates a new ProbeFunc.
func NewProbeFunc(name string, kind DependencyType, fn func(context.Context) (DependencyHealth, error)) *ProbeFunc {
	return &ProbeFunc{name: name, kind: kind, fn: fn}
}

// Name returns the dependency name.
func (p *ProbeFunc) Name() string {
	return p.name
}

// Kind returns the dependency classification.
func (p *ProbeFunc) Kind() DependencyType {
	return p.kind
}

// Check probes the dependency.
func (p *ProbeFunc) Check(ctx context.Context) (DependencyHealth, error) {
	return p.fn(ctx)
}
