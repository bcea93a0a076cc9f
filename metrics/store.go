package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	// Now overrides the time source, for tests.
	Now func() time.Time
}

// Store holds the service's request metrics behind a mutex. The host
// process writes through RecordRequest, SetCustom, and Apply; the health
// pipeline reads through Snapshot. It implements health.MetricsSource.
//
// Metrics accumulate for the process lifetime and are never reset.
type Store struct {
	config StoreConfig

	mu       sync.Mutex
	metrics  health.ServiceMetrics
	failures uint64
}

// NewStore creates an empty metrics store.
func NewStore(config ...StoreConfig) *Store {
	cfg := StoreConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Store{
		config: cfg,
		metrics: health.ServiceMetrics{
			CustomMetrics: make(map[string]any),
		},
	}
}

// Snapshot returns a consistent copy of the current metrics. The copy's
// custom metrics map is detached from the store.
func (s *Store) Snapshot() health.ServiceMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.metrics
	snapshot.CustomMetrics = make(map[string]any, len(s.metrics.CustomMetrics))
	for k, v := range s.metrics.CustomMetrics {
		snapshot.CustomMetrics[k] = v
	}
	if s.metrics.LastRequestTimestamp != nil {
		ts := *s.metrics.LastRequestTimestamp
		snapshot.LastRequestTimestamp = &ts
	}
	return snapshot
}

// RecordRequest folds one served request into the metrics: the request
// count, the error rate, the cumulative mean response time, and the last
// request timestamp.
func (s *Store) RecordRequest(duration time.Duration, failed bool) {
	ms := float64(duration) / float64(time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.RequestCount++
	if failed {
		s.failures++
	}
	s.metrics.ErrorRate = float64(s.failures) / float64(s.metrics.RequestCount)
	s.metrics.AverageResponseTime += (ms - s.metrics.AverageResponseTime) / float64(s.metrics.RequestCount)

	ts := health.NewUTCTime(s.config.Now())
	s.metrics.LastRequestTimestamp = &ts
}

// SetCustom publishes one named custom metric value.
func (s *Store) SetCustom(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.CustomMetrics[key] = value
}

// Apply merges a partial update from the host process. Recognized keys are
// request_count, error_rate, average_response_time, last_request_timestamp,
// and custom_metrics. Unrecognized keys are ignored so callers can pass
// wider maps; a recognized key with an unusable value is an error and
// leaves the store untouched.
func (s *Store) Apply(update map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.metrics

	for key, value := range update {
		switch key {
		case "request_count":
			count, ok := asUint(value)
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidField, key)
			}
			staged.RequestCount = count

		case "error_rate":
			rate, ok := asFloat(value)
			if !ok || rate < 0 || rate > 1 {
				return fmt.Errorf("%w: %q", ErrInvalidField, key)
			}
			staged.ErrorRate = rate

		case "average_response_time":
			avg, ok := asFloat(value)
			if !ok || avg < 0 {
				return fmt.Errorf("%w: %q", ErrInvalidField, key)
			}
			staged.AverageResponseTime = avg

		case "last_request_timestamp":
			ts, ok := asTime(value)
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidField, key)
			}
			utc := health.NewUTCTime(ts)
			staged.LastRequestTimestamp = &utc

		case "custom_metrics":
			custom, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidField, key)
			}
			merged := make(map[string]any, len(staged.CustomMetrics)+len(custom))
			for k, v := range staged.CustomMetrics {
				merged[k] = v
			}
			for k, v := range custom {
				merged[k] = v
			}
			staged.CustomMetrics = merged
		}
	}

	// Keep the failure counter consistent with a directly-set rate so a
	// later RecordRequest derives sensible rates.
	s.failures = uint64(staged.ErrorRate*float64(staged.RequestCount) + 0.5)
	s.metrics = staged
	return nil
}

func asUint(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case health.UTCTime:
		return v.Time, true
	case *health.UTCTime:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time, true
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
