package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CheckMeta contains metadata about a health report or check for telemetry purposes.
type CheckMeta struct {
	Report string // Report kind: basic, detailed, dependencies, integration_test (required)
	Check  string // Individual probe or test name (may be empty for report-level records)
	Kind   string // Dependency kind for probes: database, cache, ... (optional)
}

// SpanName returns the deterministic span name for this meta.
// Format: health.check.<check> or health.report.<report>
func (m CheckMeta) SpanName() string {
	if m.Check != "" {
		return "health.check." + m.Check
	}
	return "health.report." + m.Report
}

// Label returns the identifying label for logs and metrics.
// If Check is set, returns it. Otherwise returns the report kind.
func (m CheckMeta) Label() string {
	if m.Check != "" {
		return m.Check
	}
	return m.Report
}

// Validate checks that required metadata is present.
func (m CheckMeta) Validate() error {
	if m.Report == "" {
		return ErrMissingReportKind
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with report-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for report or check execution.
	StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with report metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("health.report", meta.Report),
		attribute.Bool("health.error", false), // Will be updated in EndSpan if error
	}

	// Add check name if present
	if meta.Check != "" {
		attrs = append(attrs, attribute.String("health.check", meta.Check))
	}

	// Add dependency kind if present
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("health.kind", meta.Kind))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("health.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CheckMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
