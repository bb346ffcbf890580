package domain

// Allowed arrival interval in simulated hours of the day.
type TimeWindow struct {
	Earliest float64
	Latest   float64
}

// Contains reports whether t lies within [Earliest, Latest].
func (w TimeWindow) Contains(t float64) bool {
	return w.Earliest <= t && t <= w.Latest
}

// Represents a single delivery order.
// The ID is the delivery's identity; two deliveries may share a Location.
type Delivery struct {
	ID       string
	Location Point
	Demand   int
	Window   TimeWindow
}

// Locations returns the coordinates of deliveries in input order.
func Locations(deliveries []Delivery) []Point {
	out := make([]Point, len(deliveries))
	for i, d := range deliveries {
		out[i] = d.Location
	}
	return out
}
