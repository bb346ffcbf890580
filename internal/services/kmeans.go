package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"vrptw-route-service/internal/domain"
)

var ErrInvalidClusterCount = errors.New("invalid cluster count")

// KMeansPlusPlus partitions points into k spatial clusters.
//
// Seeding is k-means++: the first centroid is drawn uniformly, each further
// centroid with probability proportional to its squared distance to the
// nearest centroid chosen so far. Lloyd iterations then run until every
// centroid moves less than tol or maxIters is reached.
//
// A cluster that loses all its points is re-seeded with the point lying
// farthest from its own centroid (taken from a cluster that keeps at least one
// member), so every returned centroid is the mean of a non-empty cluster.
func KMeansPlusPlus(
	points []domain.Point,
	k int,
	maxIters int,
	tol float64,
	rng *rand.Rand,
) ([]domain.Point, []int, error) {
	n := len(points)
	if k < 1 {
		return nil, nil, fmt.Errorf("kmeans: k=%d: %w", k, ErrInvalidClusterCount)
	}
	if n < k {
		return nil, nil, fmt.Errorf("kmeans: %d points for k=%d: %w", n, k, ErrInvalidClusterCount)
	}
	if rng == nil {
		return nil, nil, errors.New("kmeans: rng must be non-nil")
	}

	centroids := seedCentroids(points, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIters; iter++ {
		assignNearest(points, centroids, labels)
		reseedEmpty(points, centroids, labels)

		next := clusterMeans(points, labels, k)
		converged := allClose(centroids, next, tol)
		centroids = next
		if converged {
			break
		}
	}

	return centroids, labels, nil
}

func seedCentroids(points []domain.Point, k int, rng *rand.Rand) []domain.Point {
	centroids := make([]domain.Point, 0, k)
	first := points[rng.Intn(len(points))]
	centroids = append(centroids, first)

	// weights[i] is the squared distance from point i to its nearest centroid.
	weights := make([]float64, len(points))
	for i, p := range points {
		weights[i] = domain.SquaredDistance(p, first)
	}

	for len(centroids) < k {
		c := points[sampleWeighted(weights, rng)]
		centroids = append(centroids, c)

		for i, p := range points {
			if d := domain.SquaredDistance(p, c); d < weights[i] {
				weights[i] = d
			}
		}
	}

	return centroids
}

// sampleWeighted draws an index with probability weights[i]/sum(weights),
// falling back to a uniform draw when every weight is zero.
func sampleWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	r := rng.Float64() * total
	last := 0
	cum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if r < cum {
			return i
		}
	}
	return last
}

// assignNearest writes the index of the closest centroid for every point.
// Ties resolve to the lowest centroid index.
func assignNearest(points, centroids []domain.Point, labels []int) {
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := domain.SquaredDistance(p, centroid); d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
	}
}

// reseedEmpty moves one point into every empty cluster and returns how many
// clusters were re-seeded. Requires len(points) >= len(centroids).
func reseedEmpty(points, centroids []domain.Point, labels []int) int {
	counts := make([]int, len(centroids))
	for _, l := range labels {
		counts[l]++
	}

	reseeded := 0
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}

		donor := -1
		farthest := -1.0
		for i, p := range points {
			l := labels[i]
			if counts[l] < 2 {
				continue
			}
			if d := domain.SquaredDistance(p, centroids[l]); d > farthest {
				farthest = d
				donor = i
			}
		}
		if donor < 0 {
			break
		}

		counts[labels[donor]]--
		labels[donor] = c
		counts[c] = 1
		centroids[c] = points[donor]
		reseeded++
	}

	return reseeded
}

func clusterMeans(points []domain.Point, labels []int, k int) []domain.Point {
	sums := make([]domain.Point, k)
	counts := make([]int, k)
	for i, p := range points {
		l := labels[i]
		sums[l].X += p.X
		sums[l].Y += p.Y
		counts[l]++
	}

	out := make([]domain.Point, k)
	for c := range out {
		if counts[c] == 0 {
			continue
		}
		out[c] = domain.Point{
			X: sums[c].X / float64(counts[c]),
			Y: sums[c].Y / float64(counts[c]),
		}
	}
	return out
}

func allClose(a, b []domain.Point, tol float64) bool {
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > tol || math.Abs(a[i].Y-b[i].Y) > tol {
			return false
		}
	}
	return true
}
