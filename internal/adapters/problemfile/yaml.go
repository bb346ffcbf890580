package problemfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/services"
)

// Loaded is a problem read from disk together with any solver overrides
// the file carries.
type Loaded struct {
	Problem domain.Problem
	Options services.Options
}

type yamlPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlDelivery struct {
	ID       string  `yaml:"id"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Demand   int     `yaml:"demand"`
	Earliest float64 `yaml:"earliest"`
	Latest   float64 `yaml:"latest"`
}

type yamlSolver struct {
	Speed         float64  `yaml:"speed"`
	StartTime     *float64 `yaml:"start_time"`
	TabuSize      int      `yaml:"tabu_size"`
	MaxIterations int      `yaml:"max_iterations"`
	MaxPasses     int      `yaml:"max_passes"`
	Seed          int64    `yaml:"seed"`
}

type yamlProblem struct {
	Depot      yamlPoint      `yaml:"depot"`
	Capacity   int            `yaml:"capacity"`
	FleetSize  int            `yaml:"fleet_size"`
	Solver     yamlSolver     `yaml:"solver"`
	Deliveries []yamlDelivery `yaml:"deliveries"`
}

// LoadYAML reads a problem file such as:
//
//	depot: {x: 0, y: 0}
//	capacity: 10
//	fleet_size: 2
//	solver: {seed: 42}
//	deliveries:
//	  - {id: a, x: 1, y: 2, demand: 3, earliest: 8, latest: 12}
//
// Deliveries without an id get a random one.
func LoadYAML(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a YAML problem document.
func ParseYAML(data []byte) (*Loaded, error) {
	var raw yamlProblem
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode problem yaml: %w", err)
	}

	deliveries := make([]domain.Delivery, 0, len(raw.Deliveries))
	for _, d := range raw.Deliveries {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			id = uuid.NewString()
		}
		deliveries = append(deliveries, domain.Delivery{
			ID:       id,
			Location: domain.Point{X: d.X, Y: d.Y},
			Demand:   d.Demand,
			Window:   domain.TimeWindow{Earliest: d.Earliest, Latest: d.Latest},
		})
	}

	out := &Loaded{
		Problem: domain.Problem{
			Depot:      domain.Point{X: raw.Depot.X, Y: raw.Depot.Y},
			Deliveries: deliveries,
			Capacity:   raw.Capacity,
			FleetSize:  raw.FleetSize,
		},
		Options: services.Options{
			Speed:         raw.Solver.Speed,
			StartTime:     raw.Solver.StartTime,
			TabuSize:      raw.Solver.TabuSize,
			MaxIterations: raw.Solver.MaxIterations,
			MaxPasses:     raw.Solver.MaxPasses,
			Seed:          raw.Solver.Seed,
		},
	}

	if err := out.Problem.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
