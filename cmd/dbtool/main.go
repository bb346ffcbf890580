package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"vrptw-route-service/internal/adapters/cache"
	"vrptw-route-service/internal/adapters/geocode"
	"vrptw-route-service/internal/adapters/repositories"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/platform/db"
	"vrptw-route-service/internal/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	seedPath := flag.String("seed", cfg.SeedPath, "JSON file of deliveries to upsert")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(db.DialectPostgres, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), conn, cfg, *seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, cfg config.Config, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	var geocoder ports.Geocoder
	if cfg.ORSAPIKey != "" {
		g, err := geocode.NewORSGeocoder(cfg.ORSAPIKey, cfg.ORSCountry, cache.NewSQLGeocodeCache(conn))
		if err != nil {
			return err
		}
		geocoder = g
	}

	log.Println("Seeding database...")
	repo := repositories.NewSQLDeliveryRepository(conn, db.DialectPostgres)
	if err := repositories.SeedFromJSON(ctx, repo, seedPath, geocoder); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
