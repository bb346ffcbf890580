package domain

type RouteKind string

const (
	// Built by the route builder; capacity and time windows hold.
	RouteValidated RouteKind = "validated"
	// Holding bucket for deliveries no cluster route could take.
	RouteLeftover RouteKind = "leftover"
	// Direct depot -> delivery trip used when too few deliveries remain to cluster.
	RouteSpoke RouteKind = "spoke"
)

// Represents a single stop in a route.
// ArriveAt is the simulated arrival (after waiting for the window to open).
// It is zero for stops of a leftover route, which is never simulated.
type Stop struct {
	Delivery Delivery
	ArriveAt float64
}

// Represents an ordered vehicle route that starts at the depot.
// The depot itself is not stored in Stops.
type Route struct {
	Kind  RouteKind
	Depot Point
	Stops []Stop
}

// Points returns the route as an ordered point sequence beginning with the depot.
func (r Route) Points() []Point {
	out := make([]Point, 0, 1+len(r.Stops))
	out = append(out, r.Depot)
	for _, s := range r.Stops {
		out = append(out, s.Delivery.Location)
	}
	return out
}

func (r Route) Deliveries() []Delivery {
	out := make([]Delivery, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Delivery)
	}
	return out
}

// Load is the total demand carried on the route.
func (r Route) Load() int {
	total := 0
	for _, s := range r.Stops {
		total += s.Delivery.Demand
	}
	return total
}

// Length is the Euclidean length of the route, optionally including the
// return leg to the depot.
func (r Route) Length(returnToDepot bool) float64 {
	total := 0.0
	prev := r.Depot
	for _, s := range r.Stops {
		total += Distance(prev, s.Delivery.Location)
		prev = s.Delivery.Location
	}
	if returnToDepot {
		total += Distance(prev, r.Depot)
	}
	return total
}
