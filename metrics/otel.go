package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments mirrors request recordings onto OpenTelemetry instruments so
// the same traffic that drives the health error-rate rules is visible to a
// metrics backend.
type Instruments struct {
	requestTotal    metric.Int64Counter
	requestErrors   metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewInstruments creates the request instruments on the given meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	requestTotal, err := meter.Int64Counter(
		"service.requests.total",
		metric.WithDescription("Total number of requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestErrors, err := meter.Int64Counter(
		"service.requests.errors",
		metric.WithDescription("Total number of failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"service.request.duration_ms",
		metric.WithDescription("Request handling duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		requestTotal:    requestTotal,
		requestErrors:   requestErrors,
		requestDuration: requestDuration,
	}, nil
}

// Record records one served request.
func (i *Instruments) Record(ctx context.Context, duration time.Duration, failed bool) {
	opt := metric.WithAttributes(attribute.Bool("error", failed))

	i.requestTotal.Add(ctx, 1, opt)
	if failed {
		i.requestErrors.Add(ctx, 1)
	}
	i.requestDuration.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}
