package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"vrptw-route-service/internal/domain"
)

var ErrPassLimitExceeded = errors.New("refinement pass limit exceeded")

// Pass records the outcome of one clustering + route building round.
// Spoke passes are not clustered.
type Pass struct {
	Number    int
	Input     int
	Clustered bool
	Routes    []domain.Route
}

// Solution is the result of Solve.
//
// Routes is the final pass and always holds at most FleetSize routes. It may
// end with an unvalidated leftover route, and spoke routes bypass capacity and
// time-window checks. Passes keeps every round, so validated routes of earlier
// rounds remain available through Dispatch.
type Solution struct {
	Seed   int64
	Routes []domain.Route
	Passes []Pass
}

// Dispatch returns the validated routes of every earlier pass followed by the
// final routes. Each delivery appears in exactly one of them.
func (s *Solution) Dispatch() []domain.Route {
	out := make([]domain.Route, 0, len(s.Routes))
	for i, p := range s.Passes {
		if i == len(s.Passes)-1 {
			break
		}
		for _, r := range p.Routes {
			if r.Kind == domain.RouteValidated {
				out = append(out, r)
			}
		}
	}
	return append(out, s.Routes...)
}

// Unrouted returns the deliveries of the final leftover route, if any.
func (s *Solution) Unrouted() []domain.Delivery {
	for _, r := range s.Routes {
		if r.Kind == domain.RouteLeftover {
			return r.Deliveries()
		}
	}
	return nil
}

// Solve runs the cluster-then-route heuristic until the route count fits the
// fleet.
//
// Every pass clusters the pending deliveries into FleetSize groups and builds
// routes; when that yields more routes than vehicles, the leftover route's
// deliveries become the next pass's input. Once fewer deliveries remain than
// vehicles, each is sent on its own spoke route and solving stops.
func Solve(p domain.Problem, opts Options) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))
	k := p.FleetSize

	sol := &Solution{Seed: opts.Seed, Routes: []domain.Route{}}
	if len(p.Deliveries) == 0 {
		return sol, nil
	}

	pending := p.Deliveries
	for pass := 1; pass <= opts.MaxPasses; pass++ {
		if len(pending) < k {
			routes := spokeRoutes(p.Depot, pending, opts)
			sol.Passes = append(sol.Passes, Pass{Number: pass, Input: len(pending), Routes: routes})
			sol.Routes = routes
			log.Printf("solve pass=%d input=%d spokes=%d", pass, len(pending), len(routes))
			return sol, nil
		}

		_, labels, err := KMeansPlusPlus(domain.Locations(pending), k, opts.MaxIterations, opts.Tolerance, rng)
		if err != nil {
			return nil, fmt.Errorf("solve: pass %d: %w", pass, err)
		}

		routes, err := BuildRoutes(p.Depot, pending, labels, k, p.Capacity, opts)
		if err != nil {
			return nil, fmt.Errorf("solve: pass %d: %w", pass, err)
		}

		sol.Passes = append(sol.Passes, Pass{Number: pass, Input: len(pending), Clustered: true, Routes: routes})
		sol.Routes = routes

		last := routes[len(routes)-1]
		leftover := 0
		if last.Kind == domain.RouteLeftover {
			leftover = len(last.Stops)
		}
		log.Printf("solve pass=%d input=%d routes=%d leftover=%d", pass, len(pending), len(routes), leftover)

		if len(routes) <= k {
			return sol, nil
		}

		// At most k validated routes exist, so the extra route is the leftover bucket.
		if last.Kind != domain.RouteLeftover {
			return nil, fmt.Errorf("solve: pass %d: %d routes for fleet %d without leftover route", pass, len(routes), k)
		}
		pending = last.Deliveries()
	}

	return nil, fmt.Errorf("solve: %w (max_passes=%d)", ErrPassLimitExceeded, opts.MaxPasses)
}
