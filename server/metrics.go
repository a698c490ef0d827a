package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cyp0633/calview/recurrence"
)

// Metrics exports request and recurrence cache metrics to Prometheus.
type Metrics struct {
	namespace string
	reg       prometheus.Registerer
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the HTTP metrics under namespace (default "calview")
// on reg (default the global registerer).
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "calview"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		namespace: namespace,
		reg:       reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of API requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	if err := reg.Register(m.requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("register request counter: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("register request counter: %w", err)
		}
		m.requests = existing
	}
	if err := reg.Register(m.duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("register request histogram: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("register request histogram: %w", err)
		}
		m.duration = existing
	}
	return m, nil
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// observeEngine exposes the cache counters of engine. Engines without a cache
// export nothing. A collector already on the registry is kept, so with two
// servers on one registry the first engine wins.
func (m *Metrics) observeEngine(engine *recurrence.Engine, logger *slog.Logger) error {
	if !engine.Config().CacheEnabled {
		return nil
	}

	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "recurrence_cache_hits_total",
			Help:      "Recurrence range checks answered from the cache.",
		}, func() float64 { return float64(engine.CacheStats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "recurrence_cache_misses_total",
			Help:      "Recurrence range checks computed by the engine.",
		}, func() float64 { return float64(engine.CacheStats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      "recurrence_cache_entries",
			Help:      "Live entries in the recurrence cache.",
		}, func() float64 { return float64(engine.CacheStats().ActiveEntries) }),
	}
	for _, c := range collectors {
		err := m.reg.Register(c)
		if err == nil {
			continue
		}
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return fmt.Errorf("register cache metrics: %w", err)
		}
		logger.Debug("cache metric already registered, keeping existing collector",
			"error", err)
	}
	return nil
}
