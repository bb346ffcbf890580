package domain

import "math"

// Immutable planar coordinate. Geographic inputs are stored as X=lat, Y=lon
// and treated as a plane.
type Point struct {
	X float64
	Y float64
}

// Distance returns the straight-line (Euclidean) distance between two points.
// It is the only metric used by the solver.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func SquaredDistance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Return the point as [x, y] for JSON and map rendering.
func (p Point) ToList() []float64 { return []float64{p.X, p.Y} }
