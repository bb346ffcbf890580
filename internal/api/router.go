package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"vrptw-route-service/internal/api/handlers"
	"vrptw-route-service/internal/platform/metrics"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Repo ports.DeliveryRepository
	// Ping checks the backing store for GET /health. Optional.
	Ping func(ctx context.Context) error
	// Defaults for POST /plans fields a request leaves empty.
	PlanDefaults services.PlanDeliveriesRequest
	// PlanLimiter throttles POST /plans. Nil disables throttling.
	PlanLimiter *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Ping: deps.Ping}
	deliveryHandler := &handlers.DeliveryHandler{Repo: deps.Repo}
	planHandler := &handlers.PlanHandler{
		Repo:     deps.Repo,
		Defaults: deps.PlanDefaults,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/deliveries", deliveryHandler.Deliveries)
	mux.Handle("/plans", rateLimit(deps.PlanLimiter, http.HandlerFunc(planHandler.Plan)))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
