package problemfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vrptw-route-service/internal/domain"
)

// FlatFileNames names the six single-purpose text files of a flat problem
// directory.
type FlatFileNames struct {
	FleetSize string // one integer
	Capacity  string // one integer
	Depot     string // "x,y"
	Locations string // "x,y" per delivery
	Demands   string // one integer per delivery
	Windows   string // "earliest,latest" per delivery
}

func DefaultFlatFileNames() FlatFileNames {
	return FlatFileNames{
		FleetSize: "fleet_size.txt",
		Capacity:  "capacity.txt",
		Depot:     "depot.txt",
		Locations: "locations.txt",
		Demands:   "demands.txt",
		Windows:   "windows.txt",
	}
}

// LoadFlatFiles reads a problem from dir. Line i of the three per-delivery
// files describes the same delivery, whose id is its 1-based line number.
func LoadFlatFiles(dir string, names FlatFileNames) (*Loaded, error) {
	fleet, err := readInt(filepath.Join(dir, names.FleetSize))
	if err != nil {
		return nil, err
	}
	capacity, err := readInt(filepath.Join(dir, names.Capacity))
	if err != nil {
		return nil, err
	}

	depotLines, err := readLines(filepath.Join(dir, names.Depot))
	if err != nil {
		return nil, err
	}
	if len(depotLines) == 0 {
		return nil, fmt.Errorf("%s: missing depot", names.Depot)
	}
	dx, dy, err := parsePair(depotLines[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", names.Depot, err)
	}

	locLines, err := readLines(filepath.Join(dir, names.Locations))
	if err != nil {
		return nil, err
	}
	demandLines, err := readLines(filepath.Join(dir, names.Demands))
	if err != nil {
		return nil, err
	}
	windowLines, err := readLines(filepath.Join(dir, names.Windows))
	if err != nil {
		return nil, err
	}

	if len(demandLines) != len(locLines) || len(windowLines) != len(locLines) {
		return nil, fmt.Errorf(
			"flat files disagree on delivery count: locations=%d demands=%d windows=%d",
			len(locLines), len(demandLines), len(windowLines),
		)
	}

	deliveries := make([]domain.Delivery, len(locLines))
	for i := range locLines {
		x, y, err := parsePair(locLines[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", names.Locations, i+1, err)
		}
		demand, err := strconv.Atoi(demandLines[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", names.Demands, i+1, err)
		}
		earliest, latest, err := parsePair(windowLines[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", names.Windows, i+1, err)
		}

		deliveries[i] = domain.Delivery{
			ID:       strconv.Itoa(i + 1),
			Location: domain.Point{X: x, Y: y},
			Demand:   demand,
			Window:   domain.TimeWindow{Earliest: earliest, Latest: latest},
		}
	}

	out := &Loaded{
		Problem: domain.Problem{
			Depot:      domain.Point{X: dx, Y: dy},
			Deliveries: deliveries,
			Capacity:   capacity,
			FleetSize:  fleet,
		},
	}

	if err := out.Problem.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendDelivery adds one delivery to the three per-delivery files in dir.
func AppendDelivery(dir string, names FlatFileNames, d domain.Delivery) error {
	appends := []struct {
		name string
		line string
	}{
		{names.Locations, formatPair(d.Location.X, d.Location.Y)},
		{names.Demands, strconv.Itoa(d.Demand)},
		{names.Windows, formatPair(d.Window.Earliest, d.Window.Latest)},
	}

	for _, a := range appends {
		if err := appendLine(filepath.Join(dir, a.name), a.line); err != nil {
			return err
		}
	}
	return nil
}

// SetFleetSize overwrites the fleet size file.
func SetFleetSize(dir string, names FlatFileNames, n int) error {
	if n < 1 {
		return &domain.ValidationError{Field: "fleet_size", Reason: fmt.Sprintf("must be >= 1, got %d", n)}
	}
	return writeSingle(filepath.Join(dir, names.FleetSize), strconv.Itoa(n))
}

// SetCapacity overwrites the vehicle capacity file.
func SetCapacity(dir string, names FlatFileNames, q int) error {
	if q < 1 {
		return &domain.ValidationError{Field: "capacity", Reason: fmt.Sprintf("must be >= 1, got %d", q)}
	}
	return writeSingle(filepath.Join(dir, names.Capacity), strconv.Itoa(q))
}

// SetDepot overwrites the depot file.
func SetDepot(dir string, names FlatFileNames, depot domain.Point) error {
	if !depot.IsFinite() {
		return &domain.ValidationError{Field: "depot", Reason: "coordinates must be finite"}
	}
	return writeSingle(filepath.Join(dir, names.Depot), formatPair(depot.X, depot.Y))
}

// ParsePoint reads "x,y".
func ParsePoint(s string) (domain.Point, error) {
	x, y, err := parsePair(s)
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: x, Y: y}, nil
}

// ParseDelivery reads "x,y;demand;earliest,latest". The id is left empty.
func ParseDelivery(s string) (domain.Delivery, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return domain.Delivery{}, fmt.Errorf("expected \"x,y;demand;earliest,latest\", got %q", s)
	}

	loc, err := ParsePoint(parts[0])
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("location: %w", err)
	}
	demand, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("demand: %w", err)
	}
	earliest, latest, err := parsePair(parts[2])
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("window: %w", err)
	}

	d := domain.Delivery{
		Location: loc,
		Demand:   demand,
		Window:   domain.TimeWindow{Earliest: earliest, Latest: latest},
	}
	if d.Demand < 0 {
		return domain.Delivery{}, &domain.ValidationError{Field: "demand", Reason: fmt.Sprintf("must be >= 0, got %d", d.Demand)}
	}
	if !loc.IsFinite() || earliest > latest {
		return domain.Delivery{}, &domain.ValidationError{Field: "delivery", Reason: "location must be finite and earliest <= latest"}
	}
	return d, nil
}

func readInt(path string) (int, error) {
	lines, err := readLines(path)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%s: empty file", filepath.Base(path))
	}
	n, err := strconv.Atoi(lines[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return n, nil
}

// readLines returns the trimmed non-blank lines of a file.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flat file: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

func parsePair(s string) (float64, float64, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected \"a,b\", got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func formatPair(a, b float64) string {
	return strconv.FormatFloat(a, 'g', -1, 64) + "," + strconv.FormatFloat(b, 'g', -1, 64)
}

// appendLine writes line as a new last line of path. A file whose last
// line lacks its newline gets one first.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open flat file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	if info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil {
			f.Close()
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if last[0] != '\n' {
			line = "\n" + line
		}
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func writeSingle(path, value string) error {
	if err := os.WriteFile(path, []byte(value+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
