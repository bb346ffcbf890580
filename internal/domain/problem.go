package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProblem is wrapped by every ValidationError.
var ErrInvalidProblem = errors.New("invalid problem")

// ValidationError describes the first malformed field found in a Problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid problem: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidProblem }

// Problem is one CVRPTW instance: a single depot, the deliveries to make,
// the per-vehicle capacity and the number of vehicles.
// It is treated as immutable once handed to the solver.
type Problem struct {
	Depot      Point
	Deliveries []Delivery
	Capacity   int
	FleetSize  int
}

// Validate fails fast on malformed input. The solver does not repair input.
func (p Problem) Validate() error {
	if !p.Depot.IsFinite() {
		return &ValidationError{Field: "depot", Reason: "coordinates must be finite"}
	}
	if p.Capacity < 1 {
		return &ValidationError{Field: "capacity", Reason: fmt.Sprintf("must be >= 1, got %d", p.Capacity)}
	}
	if p.FleetSize < 1 {
		return &ValidationError{Field: "fleet_size", Reason: fmt.Sprintf("must be >= 1, got %d", p.FleetSize)}
	}

	seen := make(map[string]struct{}, len(p.Deliveries))
	for i, d := range p.Deliveries {
		field := fmt.Sprintf("deliveries[%d]", i)

		id := strings.TrimSpace(d.ID)
		if id == "" {
			return &ValidationError{Field: field + ".id", Reason: "must not be empty"}
		}
		if _, ok := seen[id]; ok {
			return &ValidationError{Field: field + ".id", Reason: fmt.Sprintf("duplicate id %q", id)}
		}
		seen[id] = struct{}{}

		if !d.Location.IsFinite() {
			return &ValidationError{Field: field + ".location", Reason: "coordinates must be finite"}
		}
		if d.Demand < 0 {
			return &ValidationError{Field: field + ".demand", Reason: fmt.Sprintf("must be >= 0, got %d", d.Demand)}
		}
		if !finite(d.Window.Earliest) || !finite(d.Window.Latest) {
			return &ValidationError{Field: field + ".window", Reason: "bounds must be finite"}
		}
		if d.Window.Earliest > d.Window.Latest {
			return &ValidationError{
				Field:  field + ".window",
				Reason: fmt.Sprintf("earliest %g is after latest %g", d.Window.Earliest, d.Window.Latest),
			}
		}
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
