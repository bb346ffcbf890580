package services

import "time"

const (
	DefaultSpeed         = 60.0
	DefaultStartTime     = 8.0
	DefaultTabuSize      = 5
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-9
	DefaultMaxPasses     = 100
)

// Options tunes the solver. Zero values fall back to the defaults above.
type Options struct {
	// Vehicle speed in distance units per simulated hour.
	Speed float64
	// Simulated departure time from the depot, in hours. Nil means
	// DefaultStartTime; use StartAt(0) for a midnight departure.
	StartTime *float64
	// Number of most recently visited deliveries a route may not re-select.
	TabuSize int
	// k-means++ iteration cap and centroid convergence tolerance.
	MaxIterations int
	Tolerance     float64
	// Cap on refinement passes.
	MaxPasses int
	// Seed for k-means++. Zero picks a time-based seed.
	Seed int64
}

// StartAt returns a departure time for Options.StartTime.
func StartAt(hour float64) *float64 {
	return &hour
}

func (o Options) departure() float64 {
	if o.StartTime == nil {
		return DefaultStartTime
	}
	return *o.StartTime
}

func DefaultOptions() Options {
	return Options{
		Speed:         DefaultSpeed,
		StartTime:     StartAt(DefaultStartTime),
		TabuSize:      DefaultTabuSize,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		MaxPasses:     DefaultMaxPasses,
	}
}

func (o Options) withDefaults() Options {
	if o.Speed <= 0 {
		o.Speed = DefaultSpeed
	}
	if o.StartTime == nil {
		o.StartTime = StartAt(DefaultStartTime)
	}
	if o.TabuSize <= 0 {
		o.TabuSize = DefaultTabuSize
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}
