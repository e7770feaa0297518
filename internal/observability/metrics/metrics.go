package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	crawlRunsTotal       *prometheus.CounterVec
	tendersExtracted     *prometheus.HistogramVec
	fallbackSearchTotal  prometheus.Counter
	parseFailuresTotal   prometheus.Counter
	corruptSlotsTotal    *prometheus.CounterVec
	providerCallDuration *prometheus.HistogramVec
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bidaide",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bidaide",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bidaide",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	crawlRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bidaide",
			Subsystem: "ingest",
			Name:      "crawl_runs_total",
			Help:      "Total ingestion runs by path and outcome.",
		},
		[]string{"service", "path", "outcome"},
	)
	tendersExtracted := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bidaide",
			Subsystem: "ingest",
			Name:      "tenders_extracted",
			Help:      "Distribution of tenders extracted per successful run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "path"},
	)
	fallbackSearchTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bidaide",
			Subsystem: "ingest",
			Name:      "fallback_searches_total",
			Help:      "Total search fallbacks taken after scrape failures or empty scrapes.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	parseFailuresTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bidaide",
			Subsystem: "ingest",
			Name:      "extract_parse_failures_total",
			Help:      "Total oracle replies that did not yield a parseable tender array.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	corruptSlotsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bidaide",
			Subsystem: "store",
			Name:      "corrupt_slots_total",
			Help:      "Total slot loads that degraded to the fallback data set.",
		},
		[]string{"service", "slot"},
	)
	providerCallDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bidaide",
			Subsystem: "provider",
			Name:      "call_duration_seconds",
			Help:      "Outbound provider call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "provider", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		crawlRunsTotal,
		tendersExtracted,
		fallbackSearchTotal,
		parseFailuresTotal,
		corruptSlotsTotal,
		providerCallDuration,
	)

	return &Metrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		crawlRunsTotal:       crawlRunsTotal,
		tendersExtracted:     tendersExtracted,
		fallbackSearchTotal:  fallbackSearchTotal,
		parseFailuresTotal:   parseFailuresTotal,
		corruptSlotsTotal:    corruptSlotsTotal,
		providerCallDuration: providerCallDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	for _, prefix := range []string{"/v1/projects/", "/v1/tenders/", "/v1/configs/"} {
		if strings.HasPrefix(path, prefix) {
			rest := strings.TrimPrefix(path, prefix)
			if idx := strings.IndexByte(rest, '/'); idx >= 0 {
				return prefix + "{id}/" + rest[idx+1:]
			}
			return prefix + "{id}"
		}
	}
	return path
}

func (m *Metrics) RecordCrawlRun(service string, path, outcome string, tenders int) {
	m.crawlRunsTotal.WithLabelValues(service, path, outcome).Inc()
	if outcome != "error" {
		m.tendersExtracted.WithLabelValues(service, path).Observe(float64(tenders))
	}
}

func (m *Metrics) RecordFallbackSearch() {
	m.fallbackSearchTotal.Inc()
}

func (m *Metrics) RecordParseFailure() {
	m.parseFailuresTotal.Inc()
}

func (m *Metrics) RecordCorruptSlot(service, slot string) {
	m.corruptSlotsTotal.WithLabelValues(service, slot).Inc()
}

func (m *Metrics) RecordProviderCall(service, provider, operation string, duration time.Duration) {
	m.providerCallDuration.WithLabelValues(service, provider, operation).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
