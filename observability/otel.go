package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the render pipeline.
const TracerName = "github.com/wudi/quotekit"

type otelTracer struct{ t trace.Tracer }

// NewOTelTracer adapts an OpenTelemetry tracer. A nil tracer uses the global
// provider.
func NewOTelTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = otel.Tracer(TracerName)
	}
	return otelTracer{t: t}
}

func (o otelTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := o.t.Start(ctx, name)
	return ctx, otelSpan{s: span}
}

type otelSpan struct{ s trace.Span }

func (o otelSpan) SetTag(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		o.s.SetAttributes(attribute.String(key, v))
	case int:
		o.s.SetAttributes(attribute.Int(key, v))
	case int64:
		o.s.SetAttributes(attribute.Int64(key, v))
	case bool:
		o.s.SetAttributes(attribute.Bool(key, v))
	case float64:
		o.s.SetAttributes(attribute.Float64(key, v))
	default:
		o.s.SetAttributes(attribute.String(key, fmt.Sprint(v)))
	}
}

func (o otelSpan) SetError(err error) {
	if err == nil {
		return
	}
	o.s.RecordError(err)
	o.s.SetStatus(codes.Error, err.Error())
}

func (o otelSpan) Finish() { o.s.End() }
