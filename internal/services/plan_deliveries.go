package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/metrics"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

type PlanDeliveriesRequest struct {
	Depot     domain.Point
	FleetSize int
	Capacity  int
	Options   Options
}

// PlanProblem solves one problem instance and records solver metrics.
func PlanProblem(ctx context.Context, p domain.Problem, opts Options) (_ *Solution, err error) {
	defer obs.Time(ctx, "services.PlanProblem")(&err)

	start := time.Now()
	sol, err := Solve(p, opts)
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SolveFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.SolvePasses.Observe(float64(len(sol.Passes)))
	for _, r := range sol.Routes {
		metrics.PlannedRoutes.WithLabelValues(string(r.Kind)).Inc()
	}

	return sol, nil
}

// PlanDeliveries routes every stored delivery for the requested fleet.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.DeliveryRepository,
) (*Solution, error) {
	deliveries, err := repo.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list deliveries: %w", err)
	}

	problem := domain.Problem{
		Depot:      req.Depot,
		Deliveries: deliveries,
		Capacity:   req.Capacity,
		FleetSize:  req.FleetSize,
	}

	sol, err := PlanProblem(ctx, problem, req.Options)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	return sol, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidProblem):
		return "invalid_problem"
	case errors.Is(err, ErrPassLimitExceeded):
		return "pass_limit"
	case errors.Is(err, ErrInvalidClusterCount):
		return "cluster"
	default:
		return "internal"
	}
}
