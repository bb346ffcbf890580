package problemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrptw-route-service/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeFlatProblem(t *testing.T) (string, FlatFileNames) {
	t.Helper()
	dir := t.TempDir()
	names := DefaultFlatFileNames()

	writeFile(t, dir, names.FleetSize, "2\n")
	writeFile(t, dir, names.Capacity, "10\n")
	writeFile(t, dir, names.Depot, "0,0\n")
	writeFile(t, dir, names.Locations, "1,0\n2.5, -1\n\n")
	writeFile(t, dir, names.Demands, "3\n4\n")
	writeFile(t, dir, names.Windows, "0,24\n9,12\n")
	return dir, names
}

func TestLoadFlatFiles(t *testing.T) {
	dir, names := writeFlatProblem(t)

	got, err := LoadFlatFiles(dir, names)
	require.NoError(t, err)

	p := got.Problem
	assert.Equal(t, 2, p.FleetSize)
	assert.Equal(t, 10, p.Capacity)
	assert.Equal(t, domain.Point{}, p.Depot)
	require.Len(t, p.Deliveries, 2)
	assert.Equal(t, domain.Delivery{
		ID:       "2",
		Location: domain.Point{X: 2.5, Y: -1},
		Demand:   4,
		Window:   domain.TimeWindow{Earliest: 9, Latest: 12},
	}, p.Deliveries[1])
}

func TestLoadFlatFilesCountMismatch(t *testing.T) {
	dir, names := writeFlatProblem(t)
	writeFile(t, dir, names.Demands, "3\n")

	_, err := LoadFlatFiles(dir, names)
	assert.ErrorContains(t, err, "disagree")
}

func TestLoadFlatFilesBadLine(t *testing.T) {
	dir, names := writeFlatProblem(t)
	writeFile(t, dir, names.Windows, "0,24\nnine\n")

	_, err := LoadFlatFiles(dir, names)
	assert.ErrorContains(t, err, "line 2")
}

func TestLoadFlatFilesValidates(t *testing.T) {
	dir, names := writeFlatProblem(t)
	writeFile(t, dir, names.Capacity, "0\n")

	_, err := LoadFlatFiles(dir, names)
	assert.ErrorIs(t, err, domain.ErrInvalidProblem)
}

func TestAppendDelivery(t *testing.T) {
	dir, names := writeFlatProblem(t)

	err := AppendDelivery(dir, names, domain.Delivery{
		Location: domain.Point{X: -3, Y: 4.25},
		Demand:   1,
		Window:   domain.TimeWindow{Earliest: 8, Latest: 10},
	})
	require.NoError(t, err)

	got, err := LoadFlatFiles(dir, names)
	require.NoError(t, err)
	require.Len(t, got.Problem.Deliveries, 3)

	last := got.Problem.Deliveries[2]
	assert.Equal(t, "3", last.ID)
	assert.Equal(t, domain.Point{X: -3, Y: 4.25}, last.Location)
	assert.Equal(t, domain.TimeWindow{Earliest: 8, Latest: 10}, last.Window)
}

func TestParseYAML(t *testing.T) {
	doc := `
depot: {x: 1, y: 2}
capacity: 10
fleet_size: 3
solver:
  seed: 42
  tabu_size: 2
deliveries:
  - {id: a, x: 1, y: 0, demand: 3, earliest: 8, latest: 12}
  - {x: 2, y: 0, demand: 1, earliest: 0, latest: 24}
`
	got, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, domain.Point{X: 1, Y: 2}, got.Problem.Depot)
	assert.Equal(t, 3, got.Problem.FleetSize)
	assert.Equal(t, int64(42), got.Options.Seed)
	assert.Equal(t, 2, got.Options.TabuSize)
	require.Len(t, got.Problem.Deliveries, 2)
	assert.Equal(t, "a", got.Problem.Deliveries[0].ID)
	assert.NotEmpty(t, got.Problem.Deliveries[1].ID)
}

func TestParseYAMLStartTime(t *testing.T) {
	base := `
capacity: 10
fleet_size: 1
`
	got, err := ParseYAML([]byte(base))
	require.NoError(t, err)
	assert.Nil(t, got.Options.StartTime)

	got, err = ParseYAML([]byte(base + "solver: {start_time: 0}\n"))
	require.NoError(t, err)
	require.NotNil(t, got.Options.StartTime)
	assert.Equal(t, 0.0, *got.Options.StartTime)
}

func TestParseYAMLRejectsInvalid(t *testing.T) {
	doc := `
capacity: 10
fleet_size: 1
deliveries:
  - {id: a, x: 1, y: 0, demand: 1, earliest: 12, latest: 8}
`
	_, err := ParseYAML([]byte(doc))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "deliveries[0].window", ve.Field)
}

func TestLoadYAMLMissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAppendDeliveryWithoutTrailingNewline(t *testing.T) {
	dir, names := writeFlatProblem(t)
	writeFile(t, dir, names.Locations, "1,0")
	writeFile(t, dir, names.Demands, "3")
	writeFile(t, dir, names.Windows, "8,12")

	err := AppendDelivery(dir, names, domain.Delivery{
		Location: domain.Point{X: 2},
		Demand:   1,
		Window:   domain.TimeWindow{Earliest: 8, Latest: 10},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, names.Windows))
	require.NoError(t, err)
	assert.Equal(t, "8,12\n8,10\n", string(raw))

	got, err := LoadFlatFiles(dir, names)
	require.NoError(t, err)
	require.Len(t, got.Problem.Deliveries, 2)
	assert.Equal(t, domain.Point{X: 2}, got.Problem.Deliveries[1].Location)
	assert.Equal(t, 1, got.Problem.Deliveries[1].Demand)
}

func TestAppendDeliveryCreatesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	names := DefaultFlatFileNames()

	require.NoError(t, AppendDelivery(dir, names, domain.Delivery{Demand: 2}))

	raw, err := os.ReadFile(filepath.Join(dir, names.Demands))
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(raw))
}

func TestSetFleetCapacityAndDepot(t *testing.T) {
	dir, names := writeFlatProblem(t)

	require.NoError(t, SetFleetSize(dir, names, 4))
	require.NoError(t, SetCapacity(dir, names, 25))
	require.NoError(t, SetDepot(dir, names, domain.Point{X: 54.959098, Y: 82.93698}))

	got, err := LoadFlatFiles(dir, names)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Problem.FleetSize)
	assert.Equal(t, 25, got.Problem.Capacity)
	assert.Equal(t, domain.Point{X: 54.959098, Y: 82.93698}, got.Problem.Depot)
}

func TestSettersRejectInvalidValues(t *testing.T) {
	dir, names := writeFlatProblem(t)

	assert.ErrorIs(t, SetFleetSize(dir, names, 0), domain.ErrInvalidProblem)
	assert.ErrorIs(t, SetCapacity(dir, names, -1), domain.ErrInvalidProblem)

	got, err := LoadFlatFiles(dir, names)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Problem.FleetSize)
	assert.Equal(t, 10, got.Problem.Capacity)
}

func TestParseDelivery(t *testing.T) {
	d, err := ParseDelivery("2.5,-1; 4; 9,12")
	require.NoError(t, err)
	assert.Equal(t, domain.Delivery{
		Location: domain.Point{X: 2.5, Y: -1},
		Demand:   4,
		Window:   domain.TimeWindow{Earliest: 9, Latest: 12},
	}, d)

	for _, bad := range []string{"1,2;3", "1;3;8,9", "1,2;x;8,9", "1,2;3;9,8", "1,2;-1;8,9"} {
		_, err := ParseDelivery(bad)
		assert.Error(t, err, bad)
	}
}
