package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the dispatch counters.
const (
	OutcomeAssigned    = "assigned"
	OutcomeUnavailable = "unavailable"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
	OutcomeOK          = "ok"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
)

// Recorder captures dispatch engine observations.
type Recorder interface {
	DispatchRequest(outcome string)
	DistanceQuery(outcome string, d time.Duration)
	ReservationConflict()
	DistanceCacheLookup(hit bool)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) DispatchRequest(string)              {}
func (NopRecorder) DistanceQuery(string, time.Duration) {}
func (NopRecorder) ReservationConflict()                {}
func (NopRecorder) DistanceCacheLookup(bool)            {}

// PromRecorder records observations as Prometheus metrics.
type PromRecorder struct {
	dispatches *prometheus.CounterVec
	queries    *prometheus.CounterVec
	latency    prometheus.Histogram
	conflicts  prometheus.Counter
	cache      *prometheus.CounterVec
}

// NewPromRecorder registers the dispatch metrics on reg.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_requests_total",
		Help: "Dispatch requests by outcome",
	}, []string{"outcome"})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "distance_queries_total",
		Help: "Per-candidate routing queries by outcome",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "distance_query_duration_seconds",
		Help:    "Latency of per-candidate routing queries",
		Buckets: prometheus.DefBuckets,
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservation_conflicts_total",
		Help: "Reservations lost to a concurrent dispatch",
	})

	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "distance_cache_lookups_total",
		Help: "Distance cache lookups by result",
	}, []string{"result"})

	var err error
	if dispatches, err = register(reg, dispatches); err != nil {
		return nil, err
	}
	if queries, err = register(reg, queries); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if conflicts, err = register(reg, conflicts); err != nil {
		return nil, err
	}
	if cache, err = register(reg, cache); err != nil {
		return nil, err
	}

	return &PromRecorder{
		dispatches: dispatches,
		queries:    queries,
		latency:    latency,
		conflicts:  conflicts,
		cache:      cache,
	}, nil
}

// register reuses an already registered collector of the same type.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) DispatchRequest(outcome string) {
	r.dispatches.WithLabelValues(outcome).Inc()
}

func (r *PromRecorder) DistanceQuery(outcome string, d time.Duration) {
	r.queries.WithLabelValues(outcome).Inc()
	r.latency.Observe(d.Seconds())
}

func (r *PromRecorder) ReservationConflict() {
	r.conflicts.Inc()
}

func (r *PromRecorder) DistanceCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
