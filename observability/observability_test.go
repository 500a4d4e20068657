package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestOTelTracer(t *testing.T) {
	tracer := NewOTelTracer(noop.NewTracerProvider().Tracer("test"))
	_, span := tracer.StartSpan(context.Background(), SpanRender)
	span.SetTag("pages", 3)
	span.SetTag("format", "pdf")
	span.SetTag("other", struct{}{})
	span.SetError(errors.New("boom"))
	span.Finish()

	if NewOTelTracer(nil) == nil {
		t.Fatalf("nil tracer should fall back to the global provider")
	}
}

func TestZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(zerolog.New(&buf)).With(String("render_id", "abc"))
	log.Warn("logo fetch failed",
		Error("error", errors.New("timeout")),
		Int("pages", 2),
		Int64("bytes", 42),
		Duration("elapsed", 1500*time.Millisecond),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "warn" || entry["message"] != "logo fetch failed" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["render_id"] != "abc" || entry["error"] != "timeout" || entry["pages"] != float64(2) {
		t.Fatalf("fields missing: %v", entry)
	}
}

func TestZerologLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(zerolog.New(&buf).Level(ParseLevel("warn")))
	log.Info("hidden")
	log.Debug("hidden")
	log.Error("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level not applied: %s", buf.String())
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel || ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("bad levels should default to info")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.LogoFetchFailed()
	m.LogoFetchFailed()
	m.ObserveRender("pdf", "ok", 10*time.Millisecond)
	m.ObservePages(2)
	m.ObservePDFBytes(5000)

	if got := testutil.ToFloat64(m.logoFetchFailures); got != 2 {
		t.Fatalf("logo failures = %v", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("pdf", "ok")); got != 1 {
		t.Fatalf("renders = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, MetricLogoFetchFailures); err != nil || n != 1 {
		t.Fatalf("logo metric not registered: %d %v", n, err)
	}

	var nilMetrics *Metrics
	nilMetrics.LogoFetchFailed()
	nilMetrics.ObserveRender("pdf", "ok", time.Second)
	nilMetrics.ObservePages(1)
	nilMetrics.ObservePDFBytes(1)
}
