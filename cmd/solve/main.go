package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vrptw-route-service/internal/adapters/problemfile"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/services"
)

// solve reads one problem from disk, routes it and prints the routes.
// With -dir, the edit flags rewrite the flat files before solving.
//
//	solve -problem problem.yaml
//	solve -dir ./data/flat
//	solve -dir ./data/flat -set-fleet 3 -set-capacity 40 -set-depot 54.95,82.93
//	solve -dir ./data/flat -add "55.01,82.95;10;9,12"
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	problemPath := flag.String("problem", "", "YAML problem file")
	dir := flag.String("dir", "", "directory holding the flat text problem files")
	seed := flag.Int64("seed", 0, "k-means++ seed (0 uses SOLVER_SEED or the clock)")
	all := flag.Bool("dispatch", false, "print validated routes of every pass, not only the final pass")

	var edits flatEdits
	flag.Var(&edits.add, "add", `append a delivery "x,y;demand;earliest,latest" to -dir (repeatable)`)
	flag.IntVar(&edits.fleet, "set-fleet", 0, "overwrite the fleet size in -dir")
	flag.IntVar(&edits.capacity, "set-capacity", 0, "overwrite the vehicle capacity in -dir")
	flag.StringVar(&edits.depot, "set-depot", "", `overwrite the depot "x,y" in -dir`)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if !edits.empty() {
		if *dir == "" {
			log.Fatal("edit flags require -dir")
		}
		if err := edits.apply(*dir, problemfile.DefaultFlatFileNames()); err != nil {
			log.Fatal(err)
		}
	}

	var loaded *problemfile.Loaded
	switch {
	case *problemPath != "":
		loaded, err = problemfile.LoadYAML(*problemPath)
	case *dir != "":
		loaded, err = problemfile.LoadFlatFiles(*dir, problemfile.DefaultFlatFileNames())
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}

	opts := mergeOptions(cfg.Solver, loaded.Options)
	if *seed != 0 {
		opts.Seed = *seed
	}

	start := time.Now()
	sol, err := services.PlanProblem(context.Background(), loaded.Problem, opts)
	if err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	routes := sol.Routes
	if *all {
		routes = sol.Dispatch()
	}
	printRoutes(os.Stdout, routes)
	fmt.Printf("Time taken: %d ms\n", elapsed.Milliseconds())
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, " ") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// flatEdits are the changes requested on a flat problem directory.
type flatEdits struct {
	add      stringList
	fleet    int
	capacity int
	depot    string
}

func (e flatEdits) empty() bool {
	return len(e.add) == 0 && e.fleet == 0 && e.capacity == 0 && e.depot == ""
}

// apply parses every edit before writing any, so a bad flag leaves dir untouched.
func (e flatEdits) apply(dir string, names problemfile.FlatFileNames) error {
	deliveries := make([]domain.Delivery, 0, len(e.add))
	for _, spec := range e.add {
		d, err := problemfile.ParseDelivery(spec)
		if err != nil {
			return fmt.Errorf("-add %q: %w", spec, err)
		}
		deliveries = append(deliveries, d)
	}

	var depot *domain.Point
	if e.depot != "" {
		p, err := problemfile.ParsePoint(e.depot)
		if err != nil {
			return fmt.Errorf("-set-depot %q: %w", e.depot, err)
		}
		depot = &p
	}

	if e.fleet != 0 {
		if err := problemfile.SetFleetSize(dir, names, e.fleet); err != nil {
			return err
		}
	}
	if e.capacity != 0 {
		if err := problemfile.SetCapacity(dir, names, e.capacity); err != nil {
			return err
		}
	}
	if depot != nil {
		if err := problemfile.SetDepot(dir, names, *depot); err != nil {
			return err
		}
	}
	for _, d := range deliveries {
		if err := problemfile.AppendDelivery(dir, names, d); err != nil {
			return err
		}
	}
	return nil
}

// mergeOptions lets non-zero file overrides win over env configuration.
func mergeOptions(base, file services.Options) services.Options {
	if file.Speed != 0 {
		base.Speed = file.Speed
	}
	if file.StartTime != nil {
		base.StartTime = file.StartTime
	}
	if file.TabuSize != 0 {
		base.TabuSize = file.TabuSize
	}
	if file.MaxIterations != 0 {
		base.MaxIterations = file.MaxIterations
	}
	if file.MaxPasses != 0 {
		base.MaxPasses = file.MaxPasses
	}
	if file.Seed != 0 {
		base.Seed = file.Seed
	}
	return base
}

func printRoutes(w io.Writer, routes []domain.Route) {
	for i, r := range routes {
		pts := r.Points()
		parts := make([]string, 0, len(pts))
		for _, p := range pts {
			parts = append(parts, fmt.Sprintf("(%g, %g)", p.X, p.Y))
		}
		fmt.Fprintf(w, "Route %d [%s load=%d]: %s\n", i+1, r.Kind, r.Load(), strings.Join(parts, " -> "))
	}
}
