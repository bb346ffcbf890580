package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/domain"
)

var errTrailingJSON = errors.New("body must contain only one JSON object")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingJSON
	}
	return nil
}

// toDomain converts wire deliveries, assigning an id where none was sent.
func toDomain(in []dto.Delivery) []domain.Delivery {
	out := make([]domain.Delivery, 0, len(in))
	for _, d := range in {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, domain.Delivery{
			ID:       id,
			Location: domain.Point{X: d.X, Y: d.Y},
			Demand:   d.Demand,
			Window:   domain.TimeWindow{Earliest: d.Earliest, Latest: d.Latest},
		})
	}
	return out
}

func fromDomain(d domain.Delivery) dto.Delivery {
	return dto.Delivery{
		ID:       d.ID,
		X:        d.Location.X,
		Y:        d.Location.Y,
		Demand:   d.Demand,
		Earliest: d.Window.Earliest,
		Latest:   d.Window.Latest,
	}
}
