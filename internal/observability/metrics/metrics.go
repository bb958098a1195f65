// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	obserrors "github.com/target/jobboard-api/internal/observability/errors"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

const defaultNamespace = "jobboard"

// Option configures a Registry.
type Option func(*Registry)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(r *Registry) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithHistogramBuckets sets latency buckets in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Registry) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Registry) {
		r.runtime = true
	}
}

// Registry owns a private prometheus.Registry and the metrics registered on
// it. A nil *Registry is valid and records nothing.
type Registry struct {
	namespace string
	buckets   []float64
	runtime   bool
	reg       *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	searchDuration  *prometheus.HistogramVec
	searchFailures  *prometheus.CounterVec
	searchResults   prometheus.Histogram
	digestRuns      *prometheus.CounterVec
	digestMatches   prometheus.Counter
	digestLastRun   prometheus.Gauge
	versionConflict *prometheus.CounterVec
}

// New creates a Registry with every metric registered.
func New(opts ...Option) *Registry {
	r := &Registry{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
		reg:       prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runtime {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.reg)
	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	r.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   r.buckets,
	}, []string{"route", "method"})

	r.searchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "listings",
		Name:      "search_duration_seconds",
		Help:      "Listing search latency (count and page queries together).",
		Buckets:   r.buckets,
	}, []string{"result"})
	r.searchFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "listings",
		Name:      "search_failures_total",
		Help:      "Failed listing searches by error class.",
	}, []string{"error_class"})
	r.searchResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "listings",
		Name:      "search_total_matches",
		Help:      "Total match count reported by listing searches.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	r.digestRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "alert_digest",
		Name:      "runs_total",
		Help:      "Alert digest runs by result.",
	}, []string{"result"})
	r.digestMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "alert_digest",
		Name:      "matches_total",
		Help:      "New listings matched by saved alerts.",
	})
	r.digestLastRun = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "alert_digest",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed digest run.",
	})

	r.versionConflict = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "userdata",
		Name:      "version_conflicts_total",
		Help:      "Optimistic write conflicts on user documents by key.",
	}, []string{"doc_key"})

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// ObserveHTTP records one served request. route must be the mux pattern, not
// the raw path.
func (r *Registry) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveSearch records a listing search. total is ignored when err is set.
func (r *Registry) ObserveSearch(d time.Duration, total int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.searchDuration.WithLabelValues(ResultError).Observe(d.Seconds())
		r.searchFailures.WithLabelValues(obserrors.Classify(err)).Inc()
		return
	}
	r.searchDuration.WithLabelValues(ResultSuccess).Observe(d.Seconds())
	r.searchResults.Observe(float64(total))
}

// ObserveDigestRun records a finished alert digest run.
func (r *Registry) ObserveDigestRun(result string, matches int, finished time.Time) {
	if r == nil {
		return
	}
	r.digestRuns.WithLabelValues(result).Inc()
	if matches > 0 {
		r.digestMatches.Add(float64(matches))
	}
	if result != ResultNoop {
		r.digestLastRun.Set(float64(finished.Unix()))
	}
}

// CountVersionConflict records a lost optimistic write on a user document.
func (r *Registry) CountVersionConflict(docKey string) {
	if r == nil {
		return
	}
	r.versionConflict.WithLabelValues(docKey).Inc()
}
