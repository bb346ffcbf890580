package handlers

import (
	"errors"
	"log"
	"net/http"

	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"
)

// MaxDeliveriesPerRequest bounds request bodies that carry deliveries.
const MaxDeliveriesPerRequest = 10000

// DeliveryHandler exposes listing and upserting of stored deliveries.
type DeliveryHandler struct {
	Repo ports.DeliveryRepository
}

func (h *DeliveryHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *DeliveryHandler) list(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.Repo.ListDeliveries(r.Context())
	if err != nil {
		log.Printf("list deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDeliveriesResponse{
		Deliveries: make([]dto.Delivery, 0, len(deliveries)),
	}
	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, fromDomain(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *DeliveryHandler) save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveDeliveriesRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, errTrailingJSON) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(req.Deliveries) == 0 {
		writeError(w, r, http.StatusBadRequest, "deliveries is required")
		return
	}
	if len(req.Deliveries) > MaxDeliveriesPerRequest {
		writeError(w, r, http.StatusBadRequest, "too many deliveries")
		return
	}

	deliveries := toDomain(req.Deliveries)

	// Reuse problem validation for per-delivery checks; capacity and fleet
	// are irrelevant here.
	check := domain.Problem{Deliveries: deliveries, Capacity: 1, FleetSize: 1}
	if err := check.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.SaveDeliveries(r.Context(), deliveries); err != nil {
		log.Printf("save deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SaveDeliveriesResponse{Saved: len(deliveries), IDs: make([]string, 0, len(deliveries))}
	for _, d := range deliveries {
		res.IDs = append(res.IDs, d.ID)
	}

	writeJSON(w, r, http.StatusCreated, res)
}
