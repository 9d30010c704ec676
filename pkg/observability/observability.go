// Package observability wraps pkg/icl's entry points with OpenTelemetry
// tracing spans. It is opt-in and never called from pkg/icl itself: the
// pure pipeline never does ambient I/O, and a caller that wants spans
// wraps its own call sites with Provider.TrackOperation.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Provider hands out a tracer scoped to the ICL pipeline's instrumentation
// name. Unlike a full SDK setup, it relies on whatever global TracerProvider
// the host process has installed (or the OpenTelemetry no-op default),
// keeping this package dependency-light while still emitting real spans
// when a host wires an SDK exporter.
type Provider struct {
	enabled bool
	tracer  trace.Tracer
}

// New returns a Provider. When enabled is false, TrackOperation starts no
// span and returns a no-op completion function, and the Trace helpers still
// run their callbacks, so callers do not need to branch on it.
func New(enabled bool) *Provider {
	return &Provider{
		enabled: enabled,
		tracer:  otel.Tracer("icl-core"),
	}
}

// TrackOperation starts a span named name (Attributes attrs), returning a
// context carrying it and a completion function to call with the
// operation's error (nil on success).
func (p *Provider) TrackOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if !p.enabled {
		return ctx, func(error) {}
	}
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		span.SetAttributes(attribute.Int64("icl.duration_ms", time.Since(start).Milliseconds()))
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// TraceParse wraps icl.ParseContract-style calls with a "icl.parse" span.
func (p *Provider) TraceParse(ctx context.Context, fn func() error) {
	_, done := p.TrackOperation(ctx, "icl.parse")
	done(fn())
}

// TraceVerify wraps icl.Verify with an "icl.verify" span.
func (p *Provider) TraceVerify(ctx context.Context, fn func() error) {
	_, done := p.TrackOperation(ctx, "icl.verify")
	done(fn())
}

// TraceExecute wraps icl.Execute with an "icl.execute" span, tagged with
// the operation name being executed.
func (p *Provider) TraceExecute(ctx context.Context, operation string, fn func() error) {
	_, done := p.TrackOperation(ctx, "icl.execute", attribute.String("icl.operation", operation))
	done(fn())
}
