// Package metrics exposes Prometheus metrics for the HTTP API and the render
// pipeline.
//
// Metrics:
//   - soundmap_http_request_duration_seconds{method,path,status} histogram
//   - soundmap_http_requests_inflight gauge
//   - soundmap_http_request_errors_total{method,path,status} counter (4xx/5xx)
//   - soundmap_render_duration_seconds{status} histogram
//   - soundmap_renders_inflight gauge
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "soundmap"

// Metrics holds the registered collectors.
type Metrics struct {
	reqDuration     *prometheus.HistogramVec
	reqInflight     prometheus.Gauge
	reqErrors       *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	rendersInflight prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "HTTP requests that ended with a 4xx or 5xx status.",
		}, []string{"method", "path", "status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of heat map renders.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"status"}),
		rendersInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "renders_inflight",
			Help:      "Renders currently being processed.",
		}),
	}

	reg.MustRegister(m.reqDuration, m.reqInflight, m.reqErrors, m.renderDuration, m.rendersInflight)
	return m
}

// Middleware records request metrics. The path label is the matched chi
// route pattern so IDs do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.reqInflight.Inc()
		defer m.reqInflight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		status := strconv.Itoa(code)
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		m.reqDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		if code >= 400 {
			m.reqErrors.WithLabelValues(r.Method, path, status).Inc()
		}
	})
}

// RenderStarted marks a render as in flight and returns a func that records
// its duration under the final status.
func (m *Metrics) RenderStarted() func(status string) {
	start := time.Now()
	m.rendersInflight.Inc()
	return func(status string) {
		m.rendersInflight.Dec()
		m.renderDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
