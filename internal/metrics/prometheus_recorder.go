package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	buildDuration   prom.Histogram
	renderDuration  prom.Histogram
	buildResults    *prom.CounterVec
	pagesDiscovered prom.Gauge
	rebuilds        prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg,
// creating a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikibuilder",
			Name:      "build_duration_seconds",
			Help:      "Total wiki build duration",
			Buckets:   prom.DefBuckets,
		}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wikibuilder",
			Name:      "page_render_duration_seconds",
			Help:      "Duration of individual page renders",
			Buckets:   prom.DefBuckets,
		}),
		buildResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "wikibuilder",
			Name:      "build_results_total",
			Help:      "Build outcomes by result",
		}, []string{"result"}),
		pagesDiscovered: prom.NewGauge(prom.GaugeOpts{
			Namespace: "wikibuilder",
			Name:      "pages_discovered",
			Help:      "Pages discovered by the last build",
		}),
		rebuilds: prom.NewCounter(prom.CounterOpts{
			Namespace: "wikibuilder",
			Name:      "rebuilds_total",
			Help:      "Rebuilds triggered by source changes in serve mode",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.renderDuration, pr.buildResults, pr.pagesDiscovered, pr.rebuilds)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageRenderDuration(d time.Duration) {
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildResult(result ResultLabel) {
	p.buildResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetPagesDiscovered(n int) {
	p.pagesDiscovered.Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuilds() {
	p.rebuilds.Inc()
}

// HTTPHandler returns a handler serving this recorder's registry.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
