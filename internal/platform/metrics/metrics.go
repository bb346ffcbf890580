package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveDuration records wall time of a full solve.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrptw_solve_duration_seconds", Help: "Solver wall time in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}},
	)
	// SolvePasses records how many refinement passes a solve needed.
	SolvePasses = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrptw_solve_passes", Help: "Refinement passes per solve.", Buckets: []float64{1, 2, 3, 5, 8, 13, 21}},
	)
	// PlannedRoutes counts final routes by kind (validated, leftover, spoke).
	PlannedRoutes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrptw_planned_routes_total", Help: "Final routes produced by kind."},
		[]string{"kind"},
	)
	// SolveFailures counts solves that returned an error, by reason.
	SolveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrptw_solve_failures_total", Help: "Failed solves by reason."},
		[]string{"reason"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(SolvePasses)
		Registry.MustRegister(PlannedRoutes)
		Registry.MustRegister(SolveFailures)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
