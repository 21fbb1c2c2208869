package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	StageTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_stage_transitions_total",
			Help: "Total number of stage transitions by source and target stage",
		},
		[]string{"from", "to"},
	)
	RejectedActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_rejected_actions_total",
			Help: "Total number of actions rejected as invalid for their stage",
		},
		[]string{"stage", "action"},
	)
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallbacks_total",
			Help: "Total number of degraded-capability fallbacks by component and reason",
		},
		[]string{"component", "reason"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of sessions currently held in memory",
		},
	)

	// Relevance score distribution of returned matches
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_relevance_score",
			Help:    "Distribution of match relevance scores ([0,1])",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
)

// InitMetrics registers all Prometheus metrics once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(StageTransitionsTotal)
	prometheus.MustRegister(RejectedActionsTotal)
	prometheus.MustRegister(FallbacksTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(MatchScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// RecordTransition counts a stage transition.
func RecordTransition(from, to string) {
	StageTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordRejectedAction counts an action refused as invalid for its stage.
func RecordRejectedAction(stage, action string) {
	RejectedActionsTotal.WithLabelValues(stage, action).Inc()
}

// RecordFallback counts a degraded-capability fallback for a component.
func RecordFallback(component, reason string) {
	FallbacksTotal.WithLabelValues(component, reason).Inc()
}

// ObserveMatchScores records the relevance scores of a returned match set.
func ObserveMatchScores(scores []float64) {
	for _, s := range scores {
		if s >= 0 && s <= 1 {
			MatchScoreHistogram.Observe(s)
		}
	}
}
