package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"vrptw-route-service/internal/adapters/cache"
	"vrptw-route-service/internal/adapters/geocode"
	"vrptw-route-service/internal/adapters/repositories"
	"vrptw-route-service/internal/api"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/platform/db"
	"vrptw-route-service/internal/platform/metrics"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}

	dsn := cfg.DBPath
	if dialect == db.DialectPostgres {
		dsn = cfg.DatabaseURL
		if dsn == "" {
			log.Fatal("DATABASE_URL is required for DB_DRIVER=postgres")
		}
	}

	conn, err := db.Open(dialect, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLDeliveryRepository(conn, dialect)

	geocoder, err := newGeocoder(cfg, dialect, conn)
	if err != nil {
		log.Fatal(err)
	}

	// Seed demo data on startup for local runs.
	if err := seed(ctx, repo, cfg.SeedPath, geocoder); err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	var limiter *rate.Limiter
	if cfg.PlanRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PlanRateLimit), cfg.PlanRateBurst)
	}

	router := api.NewRouter(api.Deps{
		Repo: repo,
		Ping: conn.PingContext,
		PlanDefaults: services.PlanDeliveriesRequest{
			Depot:     cfg.Depot,
			FleetSize: cfg.FleetSize,
			Capacity:  cfg.Capacity,
			Options:   cfg.Solver,
		},
		PlanLimiter: limiter,
	})

	log.Printf("Server listening addr=:%s driver=%s", cfg.Port, dialect)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newGeocoder returns an ORS geocoder backed by a persistent cache, or nil
// when no API key is configured.
func newGeocoder(cfg config.Config, dialect db.Dialect, conn *sql.DB) (ports.Geocoder, error) {
	if cfg.ORSAPIKey == "" {
		return nil, nil
	}

	var c ports.GeocodeCache
	if dialect == db.DialectPostgres {
		c = cache.NewSQLGeocodeCache(conn)
	} else {
		c = cache.NewSqliteGeocodeCache(conn)
	}

	g, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, cfg.ORSCountry, c)
	if err != nil {
		return nil, fmt.Errorf("new geocoder: %w", err)
	}
	return g, nil
}

func seed(ctx context.Context, repo ports.DeliveryRepository, path string, geocoder ports.Geocoder) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file not found path=%s (skipping)", path)
		return nil
	}

	if err := repositories.SeedFromJSON(ctx, repo, path, geocoder); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}
