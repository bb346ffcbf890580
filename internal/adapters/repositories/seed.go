package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"
)

// DeliverySeed is one entry of a seed file. Either coordinates or an
// address must be given; addresses are resolved through a Geocoder.
type DeliverySeed struct {
	ID       string   `json:"id"`
	Address  string   `json:"address"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Demand   int      `json:"demand"`
	Earliest float64  `json:"earliest"`
	Latest   float64  `json:"latest"`
}

// Populate the repository with delivery data from a JSON file.
// geocoder may be nil when every entry carries coordinates.
func SeedFromJSON(
	ctx context.Context,
	repo ports.DeliveryRepository,
	jsonPath string,
	geocoder ports.Geocoder,
) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	deliveries, err := ResolveSeeds(ctx, data, geocoder)
	if err != nil {
		return fmt.Errorf("seed deliveries: %w", err)
	}

	if err := repo.SaveDeliveries(ctx, deliveries); err != nil {
		return fmt.Errorf("seed deliveries: %w", err)
	}

	return nil
}

// ResolveSeeds validates seed entries, assigns ids to entries without one
// and geocodes entries given only by address.
func ResolveSeeds(ctx context.Context, seeds []DeliverySeed, geocoder ports.Geocoder) ([]domain.Delivery, error) {
	var toGeocode []string
	for i, item := range seeds {
		if item.Demand < 0 {
			return nil, fmt.Errorf("invalid demand at index %d: %d", i+1, item.Demand)
		}
		if item.Earliest > item.Latest {
			return nil, fmt.Errorf("invalid window at index %d: earliest %g after latest %g", i+1, item.Earliest, item.Latest)
		}

		if item.X != nil && item.Y != nil {
			continue
		}
		if strings.TrimSpace(item.Address) == "" {
			return nil, fmt.Errorf("item at index %d: coordinates or address required", i+1)
		}
		toGeocode = append(toGeocode, item.Address)
	}

	coords := map[string]domain.Point{}
	if len(toGeocode) > 0 {
		if geocoder == nil {
			return nil, fmt.Errorf("%d entries need geocoding but no geocoder is configured", len(toGeocode))
		}

		var err error
		coords, err = geocoder.Geocode(ctx, toGeocode)
		if err != nil {
			return nil, fmt.Errorf("geocode addresses: %w", err)
		}
	}

	out := make([]domain.Delivery, 0, len(seeds))
	for i, item := range seeds {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewString()
		}

		var loc domain.Point
		if item.X != nil && item.Y != nil {
			loc = domain.Point{X: *item.X, Y: *item.Y}
		} else {
			c, ok := coords[item.Address]
			if !ok {
				return nil, fmt.Errorf("item at index %d: no coordinates for %q", i+1, item.Address)
			}
			loc = c
		}

		out = append(out, domain.Delivery{
			ID:       id,
			Location: loc,
			Demand:   item.Demand,
			Window:   domain.TimeWindow{Earliest: item.Earliest, Latest: item.Latest},
		})
	}

	// Same per-delivery checks as the API; also rejects duplicate ids,
	// which the upsert would otherwise collapse silently.
	check := domain.Problem{Deliveries: out, Capacity: 1, FleetSize: 1}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
