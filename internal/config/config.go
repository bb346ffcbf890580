package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/services"
)

// Config is the process configuration assembled from environment variables.
// cmd/* mains load a .env file first via godotenv.
type Config struct {
	Port        string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string
	ORSAPIKey   string
	ORSCountry  string

	// Defaults applied to plan requests that omit them.
	Depot     domain.Point
	FleetSize int
	Capacity  int

	Solver services.Options

	// POST /plans token bucket.
	PlanRateLimit float64
	PlanRateBurst int
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func GetInt64(key string, fallback int64) (int64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, v)
	}
	return f, nil
}

// Load reads the full configuration. The first malformed value aborts.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    Get("DB_DRIVER", "sqlite"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/deliveries.json"),
		ORSAPIKey:   Get("ORS_API_KEY", ""),
		ORSCountry:  Get("ORS_COUNTRY", ""),
	}

	var err error
	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"FLEET_SIZE", 3, &cfg.FleetSize},
		{"VEHICLE_CAPACITY", 100, &cfg.Capacity},
		{"SOLVER_TABU_SIZE", services.DefaultTabuSize, &cfg.Solver.TabuSize},
		{"SOLVER_KMEANS_MAX_ITERS", services.DefaultMaxIterations, &cfg.Solver.MaxIterations},
		{"SOLVER_MAX_PASSES", services.DefaultMaxPasses, &cfg.Solver.MaxPasses},
		{"PLAN_RATE_BURST", 5, &cfg.PlanRateBurst},
	}
	for _, it := range ints {
		if *it.dst, err = GetInt(it.key, it.fallback); err != nil {
			return Config{}, err
		}
	}

	floats := []struct {
		key      string
		fallback float64
		dst      *float64
	}{
		{"DEPOT_X", 0, &cfg.Depot.X},
		{"DEPOT_Y", 0, &cfg.Depot.Y},
		{"SOLVER_SPEED", services.DefaultSpeed, &cfg.Solver.Speed},
		{"PLAN_RATE_LIMIT", 2, &cfg.PlanRateLimit},
	}
	for _, it := range floats {
		if *it.dst, err = GetFloat(it.key, it.fallback); err != nil {
			return Config{}, err
		}
	}

	// Unset keeps the solver default; an explicit 0 means midnight.
	if Get("SOLVER_START_TIME", "") != "" {
		start, err := GetFloat("SOLVER_START_TIME", services.DefaultStartTime)
		if err != nil {
			return Config{}, err
		}
		cfg.Solver.StartTime = services.StartAt(start)
	}

	if cfg.Solver.Seed, err = GetInt64("SOLVER_SEED", 0); err != nil {
		return Config{}, err
	}
	cfg.Solver.Tolerance = services.DefaultTolerance

	return cfg, nil
}
