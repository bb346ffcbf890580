package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

// ORSGeocoder implements ports.Geocoder using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - External API calls with retry/backoff
//
// Coordinates are returned as Point{X: lat, Y: lon}.
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	cache   ports.GeocodeCache
	retry   retryPolicy
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// NewORSGeocoder builds a geocoder. cache may be nil; country, when set,
// restricts results (ISO alpha-2 or alpha-3).
func NewORSGeocoder(apiKey string, country string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: country,
		cache:   cache,
		retry:   defaultRetryPolicy(),
	}, nil
}

// NormalizeAddress is the cache key form of an address: whitespace runs
// collapse to one space.
func NormalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses, consulting the cache before the ORS API.
// Inputs that normalize to the same key are looked up once; the result is
// keyed by the caller's original strings.
func (o *ORSGeocoder) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Point, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	seen := make(map[string]struct{}, len(addresses))
	needed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := NormalizeAddress(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		needed = append(needed, n)
	}

	if len(needed) == 0 {
		return map[string]domain.Point{}, nil
	}

	hits := make(map[string]domain.Point)
	if o.cache != nil {
		hits, err = o.cache.GetMany(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	misses := make([]string, 0, len(needed))
	for _, a := range needed {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Point, len(misses))
	for _, a := range misses {
		p, err := o.search(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", a, err)
		}
		fresh[a] = p
	}

	if o.cache != nil && len(fresh) > 0 {
		if err := o.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.Point, len(addresses))
	for _, a := range addresses {
		n := NormalizeAddress(a)
		if p, ok := hits[n]; ok {
			out[a] = p
		} else if p, ok := fresh[n]; ok {
			out[a] = p
		}
	}

	return out, nil
}

// search resolves one address via /geocode/search.
func (o *ORSGeocoder) search(ctx context.Context, address string) (domain.Point, error) {
	endpoint := o.baseURL + "/geocode/search"

	query := map[string]string{"text": address, "size": "1"}
	if o.country != "" {
		query["boundary.country"] = o.country
	}

	resp, err := o.sendWithRetry(ctx, func() (*http.Request, error) {
		return o.get(ctx, endpoint, query)
	})
	if err != nil {
		return domain.Point{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Point{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Point{}, errors.New("no geocode results")
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Point{}, errors.New("invalid coordinate format")
	}

	// ORS answers [lon, lat].
	return domain.Point{X: coords[1], Y: coords[0]}, nil
}
