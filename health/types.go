package health

import (
	"encoding/json"
	"time"
)

// UTCTime is a time.Time that always marshals as RFC 3339 in UTC with a
// trailing "Z", regardless of the location it was produced in. All report
// timestamps use it so the wire format cannot drift with server locale.
type UTCTime struct {
	time.Time
}

// NewUTCTime converts t to its UTC wire form.
func NewUTCTime(t time.Time) UTCTime {
	return UTCTime{t.UTC()}
}

// MarshalJSON encodes the time as RFC 3339 UTC.
func (t UTCTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// UnmarshalJSON decodes an RFC 3339 timestamp and normalizes it to UTC.
func (t *UTCTime) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

// MemoryUsage reports memory consumption at sample time.
type MemoryUsage struct {
	// Used is the consumed memory in bytes.
	Used uint64 `json:"used"`

	// Total is the available memory in bytes.
	Total uint64 `json:"total"`

	// Percentage is Used over Total on a 0-100 scale.
	Percentage float64 `json:"percentage"`
}

// ServiceMetrics is the request-level view of the service embedded in
// detailed reports. It is owned by the host process and read by the
// aggregation pipeline, never reset.
type ServiceMetrics struct {
	// RequestCount is the number of requests handled so far.
	RequestCount uint64 `json:"request_count"`

	// ErrorRate is the failed fraction of requests, in [0, 1].
	ErrorRate float64 `json:"error_rate"`

	// AverageResponseTime is the mean handling time in milliseconds.
	AverageResponseTime float64 `json:"average_response_time"`

	// LastRequestTimestamp is when the most recent request arrived,
	// nil until the first request.
	LastRequestTimestamp *UTCTime `json:"last_request_timestamp"`

	// CustomMetrics holds arbitrary named values published by the host.
	CustomMetrics map[string]any `json:"custom_metrics"`
}
