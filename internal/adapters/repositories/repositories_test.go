package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/db"
)

func newTestRepo(t *testing.T) *SQLDeliveryRepository {
	t.Helper()

	conn, err := db.Open(db.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))
	return NewSQLDeliveryRepository(conn, db.DialectSQLite)
}

type stubGeocoder struct {
	coords map[string]domain.Point
	calls  int
}

func (s *stubGeocoder) Geocode(ctx context.Context, addresses []string) (map[string]domain.Point, error) {
	s.calls++
	out := make(map[string]domain.Point, len(addresses))
	for _, a := range addresses {
		if c, ok := s.coords[a]; ok {
			out[a] = c
		}
	}
	return out, nil
}

func TestSaveAndListDeliveries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	in := []domain.Delivery{
		{ID: "b", Location: domain.Point{X: 54.96, Y: 82.94}, Demand: 3, Window: domain.TimeWindow{Earliest: 9, Latest: 11}},
		{ID: "a", Location: domain.Point{X: 54.95, Y: 82.93}, Demand: 5, Window: domain.TimeWindow{Earliest: 8, Latest: 12}},
	}
	require.NoError(t, repo.SaveDeliveries(ctx, in))

	got, err := repo.ListDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, in[1], got[0])
	assert.Equal(t, in[0], got[1])

	// Saving the same id again replaces the row.
	in[1].Demand = 7
	require.NoError(t, repo.SaveDeliveries(ctx, in[1:]))

	got, err = repo.ListDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 7, got[0].Demand)
}

func TestSaveDeliveriesRejectsEmptyID(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveDeliveries(context.Background(), []domain.Delivery{{ID: " "}})
	assert.Error(t, err)
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	path := filepath.Join(t.TempDir(), "deliveries.json")
	seed := `[
		{"id": "d1", "x": 1, "y": 0, "demand": 5, "earliest": 8, "latest": 9},
		{"address": "1 Main  St", "demand": 2, "earliest": 8, "latest": 10}
	]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	geo := &stubGeocoder{coords: map[string]domain.Point{"1 Main  St": {X: 3, Y: 4}}}
	require.NoError(t, SeedFromJSON(ctx, repo, path, geo))
	assert.Equal(t, 1, geo.calls)

	got, err := repo.ListDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byDemand := map[int]domain.Delivery{}
	for _, d := range got {
		byDemand[d.Demand] = d
	}
	assert.Equal(t, "d1", byDemand[5].ID)
	assert.Equal(t, domain.Point{X: 3, Y: 4}, byDemand[2].Location)
	assert.NotEmpty(t, byDemand[2].ID)
}

func TestResolveSeedsErrors(t *testing.T) {
	ctx := context.Background()
	x, y := 1.0, 2.0

	_, err := ResolveSeeds(ctx, []DeliverySeed{{X: &x, Y: &y, Demand: -1}}, nil)
	assert.ErrorContains(t, err, "invalid demand")

	_, err = ResolveSeeds(ctx, []DeliverySeed{{X: &x, Y: &y, Earliest: 10, Latest: 9}}, nil)
	assert.ErrorContains(t, err, "invalid window")

	_, err = ResolveSeeds(ctx, []DeliverySeed{{Address: "somewhere"}}, nil)
	assert.ErrorContains(t, err, "no geocoder")

	_, err = ResolveSeeds(ctx, []DeliverySeed{{}}, nil)
	assert.ErrorContains(t, err, "coordinates or address required")
}

func TestResolveSeedsRejectsDuplicateIDs(t *testing.T) {
	x, y := 1.0, 2.0
	seeds := []DeliverySeed{
		{ID: "a", X: &x, Y: &y, Demand: 1, Latest: 24},
		{ID: "a", X: &y, Y: &x, Demand: 2, Latest: 24},
	}

	_, err := ResolveSeeds(context.Background(), seeds, nil)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "deliveries[1].id", ve.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidProblem)
}

func TestResolveSeedsKeysByOriginalAddress(t *testing.T) {
	seeds := []DeliverySeed{{ID: "a", Address: "  1   Main St ", Demand: 1, Latest: 24}}
	geo := &stubGeocoder{coords: map[string]domain.Point{"  1   Main St ": {X: 3, Y: 4}}}

	got, err := ResolveSeeds(context.Background(), seeds, geo)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Point{X: 3, Y: 4}, got[0].Location)
}
