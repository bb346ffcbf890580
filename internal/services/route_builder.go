package services

import (
	"fmt"
	"math"

	"vrptw-route-service/internal/domain"
)

// BuildRoutes grows one route per cluster label, in increasing label order.
//
// Each route starts at the depot at the departure time with the full capacity and
// repeatedly moves to the nearest delivery of its cluster that is unvisited,
// not tabu, fits the remaining capacity and can be reached inside its time
// window (arriving early means waiting for the window to open). Deliveries no
// route could take are returned, in input order, in one trailing leftover
// route that is not capacity or time-window checked.
func BuildRoutes(
	depot domain.Point,
	deliveries []domain.Delivery,
	labels []int,
	k int,
	capacity int,
	opts Options,
) ([]domain.Route, error) {
	if len(labels) != len(deliveries) {
		return nil, fmt.Errorf(
			"build routes: labels and deliveries length mismatch: labels=%d deliveries=%d",
			len(labels), len(deliveries),
		)
	}
	for i, l := range labels {
		if l < 0 || l >= k {
			return nil, fmt.Errorf("build routes: label %d at index %d outside [0,%d)", l, i, k)
		}
	}

	opts = opts.withDefaults()
	visited := make([]bool, len(deliveries))
	routes := make([]domain.Route, 0, k+1)

	for cluster := 0; cluster < k; cluster++ {
		stops := buildClusterRoute(depot, deliveries, labels, cluster, capacity, visited, opts)
		// A depot-only route carries nothing.
		if len(stops) == 0 {
			continue
		}
		routes = append(routes, domain.Route{
			Kind:  domain.RouteValidated,
			Depot: depot,
			Stops: stops,
		})
	}

	var leftover []domain.Stop
	for i, d := range deliveries {
		if !visited[i] {
			leftover = append(leftover, domain.Stop{Delivery: d})
		}
	}
	if len(leftover) > 0 {
		routes = append(routes, domain.Route{
			Kind:  domain.RouteLeftover,
			Depot: depot,
			Stops: leftover,
		})
	}

	return routes, nil
}

func buildClusterRoute(
	depot domain.Point,
	deliveries []domain.Delivery,
	labels []int,
	cluster int,
	capacity int,
	visited []bool,
	opts Options,
) []domain.Stop {
	current := depot
	remaining := capacity
	now := opts.departure()
	tabu := newTabuList(opts.TabuSize)

	var stops []domain.Stop
	for {
		best := -1
		bestDist := math.Inf(1)
		bestArrival := 0.0

		for j, d := range deliveries {
			if labels[j] != cluster || visited[j] || tabu.Contains(j) {
				continue
			}
			if d.Demand > remaining {
				continue
			}

			dist := domain.Distance(current, d.Location)
			arrival := now + dist/opts.Speed
			if arrival < d.Window.Earliest {
				arrival = d.Window.Earliest
			}
			if !d.Window.Contains(arrival) {
				continue
			}

			// Raw distance decides; waiting time does not.
			if dist < bestDist {
				bestDist = dist
				best = j
				bestArrival = arrival
			}
		}

		if best < 0 {
			return stops
		}

		d := deliveries[best]
		stops = append(stops, domain.Stop{Delivery: d, ArriveAt: bestArrival})
		visited[best] = true
		remaining -= d.Demand
		now = bestArrival
		current = d.Location
		tabu.Push(best)
	}
}

// spokeRoutes sends one vehicle straight to each delivery. Capacity and
// time windows are not enforced; ArriveAt is informational.
func spokeRoutes(depot domain.Point, deliveries []domain.Delivery, opts Options) []domain.Route {
	routes := make([]domain.Route, 0, len(deliveries))
	for _, d := range deliveries {
		arrival := opts.departure() + domain.Distance(depot, d.Location)/opts.Speed
		if arrival < d.Window.Earliest {
			arrival = d.Window.Earliest
		}
		routes = append(routes, domain.Route{
			Kind:  domain.RouteSpoke,
			Depot: depot,
			Stops: []domain.Stop{{Delivery: d, ArriveAt: arrival}},
		})
	}
	return routes
}
