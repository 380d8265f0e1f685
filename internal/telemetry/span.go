// Package telemetry wraps OpenTelemetry spans around reconcile and
// enrichment operations.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is an alias for trace.Tracer, so any OpenTelemetry tracer
// (including a no-op one) can be supplied directly; nil disables tracing.
type Tracer = trace.Tracer

// Span starts a span named name with the given attributes, runs fn, and
// records any returned error on the span before ending it. If tracer is
// nil, fn still runs — tracing is always optional.
func Span(ctx context.Context, tracer Tracer, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	if tracer == nil {
		return fn(ctx)
	}

	spanCtx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// ResourceAttrs builds the standard resource.kind/resource.name attribute
// pair attached to every reconcile span.
func ResourceAttrs(kind, name string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("resource.kind", kind),
		attribute.String("resource.name", name),
	}
}
