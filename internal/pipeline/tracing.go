package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span and attribute names for tool execution traces.
const (
	spanToolExecute = "relay.tool.execute"

	attrToolName   = "relay.tool.name"
	attrToolCached = "relay.tool.cached"
	attrParamCount = "relay.tool.parameter_count"
)

// TracingMiddleware wraps the handler invocation in an OpenTelemetry
// span. It sits innermost among the optional stages so a cache hit or
// rejected call does not open a span.
func TracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Result, error) {
			ctx, span := tracer.Start(ctx, spanToolExecute)
			defer span.End()

			span.SetAttributes(
				attribute.String(attrToolName, call.Tool.Name),
				attribute.Int(attrParamCount, len(call.Params)),
			)

			result, err := next(ctx, call)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			span.SetStatus(codes.Ok, "")
			span.SetAttributes(attribute.Bool(attrToolCached, result.Cached))
			return result, nil
		}
	}
}
