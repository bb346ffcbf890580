package handlers

import (
	"errors"
	"log"
	"net/http"

	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"
)

type PlanHandler struct {
	Repo ports.DeliveryRepository
	// Defaults supplies depot, fleet size, capacity and solver options
	// for fields the request leaves empty.
	Defaults services.PlanDeliveriesRequest
}

// Plan solves either the inline deliveries of the request or every stored
// delivery, and returns the final routes plus the full dispatch list.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, errTrailingJSON) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(req.Deliveries) > MaxDeliveriesPerRequest {
		writeError(w, r, http.StatusBadRequest, "too many deliveries")
		return
	}

	svcReq := h.Defaults
	if req.Depot != nil {
		svcReq.Depot = domain.Point{X: req.Depot.X, Y: req.Depot.Y}
	}
	if req.FleetSize != 0 {
		svcReq.FleetSize = req.FleetSize
	}
	if req.Capacity != 0 {
		svcReq.Capacity = req.Capacity
	}
	if req.Seed != 0 {
		svcReq.Options.Seed = req.Seed
	}

	var (
		sol *services.Solution
		err error
	)
	if req.Deliveries != nil {
		problem := domain.Problem{
			Depot:      svcReq.Depot,
			Deliveries: toDomain(req.Deliveries),
			Capacity:   svcReq.Capacity,
			FleetSize:  svcReq.FleetSize,
		}
		sol, err = services.PlanProblem(r.Context(), problem, svcReq.Options)
	} else {
		sol, err = services.PlanDeliveries(r.Context(), svcReq, h.Repo)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProblem) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("plan deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanResponse{
		Seed:      sol.Seed,
		FleetSize: svcReq.FleetSize,
		Passes:    len(sol.Passes),
		Routes:    toRouteResponses(sol.Routes, req.ReturnToDepot),
		Dispatch:  toRouteResponses(sol.Dispatch(), req.ReturnToDepot),
		Unrouted:  []string{},
	}
	for _, d := range sol.Unrouted() {
		res.Unrouted = append(res.Unrouted, d.ID)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toRouteResponses(routes []domain.Route, returnToDepot bool) []dto.PlanRouteResponse {
	out := make([]dto.PlanRouteResponse, 0, len(routes))
	for _, rt := range routes {
		stops := make([]dto.PlanStopResponse, 0, len(rt.Stops))
		for _, s := range rt.Stops {
			stop := dto.PlanStopResponse{
				DeliveryID: s.Delivery.ID,
				Location:   dto.Point{X: s.Delivery.Location.X, Y: s.Delivery.Location.Y},
				Demand:     s.Delivery.Demand,
			}
			// Leftover stops were never simulated.
			if rt.Kind != domain.RouteLeftover {
				at := s.ArriveAt
				stop.ArriveAt = &at
			}
			stops = append(stops, stop)
		}

		out = append(out, dto.PlanRouteResponse{
			Kind:   string(rt.Kind),
			Load:   rt.Load(),
			Length: rt.Length(returnToDepot),
			Stops:  stops,
		})
	}
	return out
}
