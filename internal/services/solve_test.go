package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrptw-route-service/internal/domain"
)

func seeded(seed int64) Options {
	opts := DefaultOptions()
	opts.Seed = seed
	return opts
}

func TestSolveSingleVehicle(t *testing.T) {
	p := domain.Problem{Depot: depot, Deliveries: twoStops(), Capacity: 10, FleetSize: 1}

	sol, err := Solve(p, seeded(1))
	require.NoError(t, err)
	require.Len(t, sol.Routes, 1)

	assert.Equal(t, domain.RouteValidated, sol.Routes[0].Kind)
	assert.Equal(t, []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, sol.Routes[0].Points())
	assert.Len(t, sol.Passes, 1)
	assert.Empty(t, sol.Unrouted())
}

func TestSolveOverCapacityEndsInLeftover(t *testing.T) {
	p := domain.Problem{Depot: depot, Deliveries: twoStops(), Capacity: 4, FleetSize: 1}

	sol, err := Solve(p, seeded(1))
	require.NoError(t, err)

	require.Len(t, sol.Passes, 2)
	first := sol.Passes[0].Routes
	require.Len(t, first, 2)
	assert.Equal(t, []string{"p2"}, ids(first[0]))
	assert.Equal(t, domain.RouteLeftover, first[1].Kind)
	assert.Equal(t, []string{"p1"}, ids(first[1]))

	require.Len(t, sol.Routes, 1)
	assert.Equal(t, domain.RouteLeftover, sol.Routes[0].Kind)
	require.Len(t, sol.Unrouted(), 1)
	assert.Equal(t, "p1", sol.Unrouted()[0].ID)

	dispatch := sol.Dispatch()
	require.Len(t, dispatch, 2)
	assert.Equal(t, []string{"p2"}, ids(dispatch[0]))
	assert.Equal(t, []string{"p1"}, ids(dispatch[1]))
}

func TestSolveFewerDeliveriesThanVehicles(t *testing.T) {
	p := domain.Problem{Depot: depot, Deliveries: twoStops(), Capacity: 1, FleetSize: 3}

	sol, err := Solve(p, seeded(1))
	require.NoError(t, err)

	require.Len(t, sol.Routes, 2)
	for _, r := range sol.Routes {
		assert.Equal(t, domain.RouteSpoke, r.Kind)
		assert.Len(t, r.Stops, 1)
	}
	require.Len(t, sol.Passes, 1)
	assert.False(t, sol.Passes[0].Clustered)
}

func TestSolveSpokesForFinalLeftover(t *testing.T) {
	wide := domain.TimeWindow{Earliest: 8, Latest: 20}
	p := domain.Problem{
		Depot:     depot,
		Capacity:  10,
		FleetSize: 2,
		Deliveries: []domain.Delivery{
			{ID: "east", Location: domain.Point{X: 10, Y: 0}, Demand: 1, Window: wide},
			{ID: "west", Location: domain.Point{X: -10, Y: 0}, Demand: 1, Window: wide},
			{ID: "closed", Location: domain.Point{X: 10.5, Y: 0}, Demand: 1, Window: domain.TimeWindow{Earliest: 0, Latest: 1}},
		},
	}

	sol, err := Solve(p, seeded(4))
	require.NoError(t, err)

	require.Len(t, sol.Passes, 2)
	assert.True(t, sol.Passes[0].Clustered)
	assert.Len(t, sol.Passes[0].Routes, 3)
	assert.False(t, sol.Passes[1].Clustered)

	require.Len(t, sol.Routes, 1)
	assert.Equal(t, domain.RouteSpoke, sol.Routes[0].Kind)
	assert.Equal(t, []string{"closed"}, ids(sol.Routes[0]))

	assertPartition(t, p.Deliveries, sol.Dispatch())
}

func TestSolveRandomInstanceInvariants(t *testing.T) {
	deliveries := randomDeliveries(rand.New(rand.NewSource(8)), 60)
	p := domain.Problem{Depot: depot, Deliveries: deliveries, Capacity: 30, FleetSize: 4}
	opts := seeded(17)

	sol, err := Solve(p, opts)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(sol.Routes), p.FleetSize)
	assertPartition(t, deliveries, sol.Dispatch())

	for _, pass := range sol.Passes {
		for _, r := range pass.Routes {
			if r.Kind == domain.RouteValidated {
				assertRouteFeasible(t, r, p.Capacity, DefaultOptions())
			}
		}
	}
}

func TestSolveDeterministicForSeed(t *testing.T) {
	deliveries := randomDeliveries(rand.New(rand.NewSource(2)), 40)
	p := domain.Problem{Depot: depot, Deliveries: deliveries, Capacity: 20, FleetSize: 3}

	a, err := Solve(p, seeded(123))
	require.NoError(t, err)
	b, err := Solve(p, seeded(123))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSolveSharedCoordinatesKeepTheirDemand(t *testing.T) {
	spot := domain.Point{X: 3, Y: 4}
	wide := domain.TimeWindow{Earliest: 8, Latest: 20}
	p := domain.Problem{
		Depot:     depot,
		Capacity:  5,
		FleetSize: 1,
		Deliveries: []domain.Delivery{
			{ID: "heavy", Location: spot, Demand: 5, Window: wide},
			{ID: "light", Location: spot, Demand: 1, Window: wide},
		},
	}

	sol, err := Solve(p, seeded(1))
	require.NoError(t, err)

	assertPartition(t, p.Deliveries, sol.Dispatch())
	for _, r := range sol.Dispatch() {
		for _, s := range r.Stops {
			want := map[string]int{"heavy": 5, "light": 1}[s.Delivery.ID]
			assert.Equal(t, want, s.Delivery.Demand)
		}
	}
}

func TestSolveEmptyProblem(t *testing.T) {
	sol, err := Solve(domain.Problem{Depot: depot, Capacity: 1, FleetSize: 1}, seeded(1))
	require.NoError(t, err)
	assert.Empty(t, sol.Routes)
	assert.Empty(t, sol.Dispatch())
}

func TestSolveRejectsInvalidProblem(t *testing.T) {
	bad := twoStops()
	bad[0].Window = domain.TimeWindow{Earliest: 9, Latest: 8}

	_, err := Solve(domain.Problem{Depot: depot, Deliveries: bad, Capacity: 10, FleetSize: 1}, seeded(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidProblem))
}

func TestSolvePassLimit(t *testing.T) {
	// Capacity 4 leaves p1 over for a second pass.
	p := domain.Problem{Depot: depot, Deliveries: twoStops(), Capacity: 4, FleetSize: 1}

	opts := seeded(9)
	opts.MaxPasses = 1

	sol, err := Solve(p, opts)
	require.ErrorIs(t, err, ErrPassLimitExceeded)
	assert.Nil(t, sol)
}

func assertPartition(t *testing.T, want []domain.Delivery, routes []domain.Route) {
	t.Helper()

	counts := map[string]int{}
	for _, r := range routes {
		for _, s := range r.Stops {
			counts[s.Delivery.ID]++
		}
	}

	assert.Len(t, counts, len(want))
	for _, d := range want {
		assert.Equal(t, 1, counts[d.ID], "delivery %s", d.ID)
	}
}
