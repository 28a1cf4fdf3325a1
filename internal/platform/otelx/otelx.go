// Package otelx wraps the OpenTelemetry tracer start/attribute/error
// calls every use-case opens around its work, grounded on the
// teacher's common/mopentelemetry package and its use in
// create-organization.go (tracer.Start, span.SetStatus(codes.Error,
// ...), span.RecordError(err)).
package otelx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name every use-case span is
// recorded under.
const TracerName = "github.com/openfairdb/ofdb-core"

// StartSpan opens a span named "usecase.<operation>" under the global
// tracer provider and returns the derived context and span.
func StartSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	return tracer.Start(ctx, "usecase."+operation)
}

// Fail records err on span and marks it as failed. Call sites use this
// instead of duplicating the SetStatus/RecordError pair everywhere.
func Fail(span trace.Span, msg string, err error) {
	span.SetStatus(codes.Error, msg+": "+err.Error())
	span.RecordError(err)
}

// SetAttribute is a small convenience wrapper over span.SetAttributes
// for the common string-attribute case.
func SetAttribute(span trace.Span, key, value string) {
	span.SetAttributes(attribute.String(key, value))
}
