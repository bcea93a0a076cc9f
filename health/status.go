package health

import (
	"encoding/json"
	"fmt"
)

// Status represents the health status of the service or one of its
// dependencies. Values are ordered by severity, so a larger value is
// always the worse one.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// ParseStatus converts a wire value into a Status. Values outside the
// three recognized names are rejected so raw strings never leak into
// reports.
func ParseStatus(value string) (Status, error) {
	switch value {
	case "healthy":
		return StatusHealthy, nil
	case "degraded":
		return StatusDegraded, nil
	case "unhealthy":
		return StatusUnhealthy, nil
	default:
		return StatusHealthy, fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

// Worse returns the more severe of s and other.
func (s Status) Worse(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// MarshalJSON encodes the status as its lowercase wire value.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a lowercase wire value into the status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseStatus(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CombineStatus returns the most severe status in the set. An empty set
// combines to StatusHealthy.
func CombineStatus(statuses ...Status) Status {
	combined := StatusHealthy
	for _, s := range statuses {
		combined = combined.Worse(s)
	}
	return combined
}
