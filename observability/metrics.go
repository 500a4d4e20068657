package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the render pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	renders           *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	pages             prometheus.Histogram
	logoFetchFailures prometheus.Counter
	pdfBytes          prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRenders,
			Help: "Quotation renders by output format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRenderDuration,
			Help:    "Wall time of a quotation render.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"format"}),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricPages,
			Help:    "Pages per rendered quotation.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		logoFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricLogoFetchFailures,
			Help: "Logo fetches that failed; the document was rendered without a logo.",
		}),
		pdfBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricPDFBytes,
			Help:    "Size of rendered PDF files.",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.renders, m.renderDuration, m.pages, m.logoFetchFailures, m.pdfBytes)
	}
	return m
}

func (m *Metrics) ObserveRender(format, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(format, outcome).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) ObservePages(n int) {
	if m == nil {
		return
	}
	m.pages.Observe(float64(n))
}

func (m *Metrics) ObservePDFBytes(n int) {
	if m == nil {
		return
	}
	m.pdfBytes.Observe(float64(n))
}

func (m *Metrics) LogoFetchFailed() {
	if m == nil {
		return
	}
	m.logoFetchFailures.Inc()
}
