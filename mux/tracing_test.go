package mux

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTracedRouter(t *testing.T) (*Router, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	r, _ := newTestRouter(t)
	r.SetTracerProvider(tp)
	return r, rec
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing(t *testing.T) {
	t.Run("records routing and forwards", func(t *testing.T) {
		r, rec := newTracedRouter(t)
		require.NoError(t, r.GET("/one").ID("one").Handle(func(_ *Context) error { return Forward("/two") }))
		require.NoError(t, r.GET("/two").ID("two").Handle(func(c *Context) error {
			assert.True(t, trace.SpanFromContext(c.Context()).SpanContext().IsValid())
			c.SendPlainText("two")
			return nil
		}))

		serve(r, http.MethodGet, "/one")

		spans := rec.Ended()
		require.Len(t, spans, 1)
		span := spans[0]
		assert.Equal(t, spanName, span.Name())
		assert.Equal(t, trace.SpanKindServer, span.SpanKind())

		method, ok := attrValue(span.Attributes(), "http.method")
		require.True(t, ok)
		assert.Equal(t, http.MethodGet, method.AsString())

		status, ok := attrValue(span.Attributes(), "http.status_code")
		require.True(t, ok)
		assert.Equal(t, int64(http.StatusOK), status.AsInt64())

		var names []string
		for _, ev := range span.Events() {
			names = append(names, ev.Name)
		}
		assert.Equal(t, []string{"routing", "forward", "routing"}, names)

		id, ok := attrValue(span.Events()[2].Attributes, "routing.route_id")
		require.True(t, ok)
		assert.Equal(t, "two", id.AsString())
		assert.Equal(t, codes.Unset, span.Status().Code)
	})

	t.Run("records errors", func(t *testing.T) {
		r, rec := newTracedRouter(t)
		require.NoError(t, r.GET("/boom").Handle(func(_ *Context) error { return errors.New("boom") }))

		serve(r, http.MethodGet, "/boom")

		spans := rec.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Equal(t, "boom", spans[0].Status().Description)

		typ, ok := attrValue(spans[0].Events()[1].Attributes, "routing.type")
		require.True(t, ok)
		assert.Equal(t, "exception", typ.AsString())
	})

	t.Run("nil provider disables tracing", func(t *testing.T) {
		r, rec := newTracedRouter(t)
		r.SetTracerProvider(nil)
		require.NoError(t, r.GET("/x").Handle(text("x")))

		serve(r, http.MethodGet, "/x")
		assert.Empty(t, rec.Ended())
	})
}
