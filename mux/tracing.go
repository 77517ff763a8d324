package mux

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName = "github.com/vitalvas/switchyard/mux"
	spanName   = "switchyard.route"
)

func defaultTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerName)
}

func (r *Router) startSpan(req *http.Request) (context.Context, trace.Span) {
	return r.tracer.Start(req.Context(), spanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.target", req.URL.Path),
		),
	)
}

func traceRouting(span trace.Span, typ RoutingType, result *RoutingResult) {
	attrs := []attribute.KeyValue{attribute.String("routing.type", typ.String())}
	if m := result.Main(); m != nil {
		attrs = append(attrs, attribute.String("routing.route", m.Route.Path()))
		if m.Route.ID() != "" {
			attrs = append(attrs, attribute.String("routing.route_id", m.Route.ID()))
		}
	}
	span.AddEvent("routing", trace.WithAttributes(attrs...))
}

func traceForward(span trace.Span, target string, count int) {
	span.AddEvent("forward", trace.WithAttributes(
		attribute.String("forward.target", target),
		attribute.Int("forward.count", count),
	))
}

func traceEnd(span trace.Span, c *Context) {
	span.SetAttributes(attribute.Int("http.status_code", c.res.status))
	if err := c.routing.err; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
