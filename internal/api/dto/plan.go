package dto

// PlanRequest solves the inline deliveries when present, otherwise every
// stored delivery. Zero-valued fields fall back to server defaults.
type PlanRequest struct {
	Depot         *Point     `json:"depot"`
	FleetSize     int        `json:"fleet_size"`
	Capacity      int        `json:"capacity"`
	Seed          int64      `json:"seed"`
	ReturnToDepot bool       `json:"return_to_depot"`
	Deliveries    []Delivery `json:"deliveries"`
}

type PlanStopResponse struct {
	DeliveryID string   `json:"delivery_id"`
	Location   Point    `json:"location"`
	Demand     int      `json:"demand"`
	ArriveAt   *float64 `json:"arrive_at,omitempty"`
}

type PlanRouteResponse struct {
	Kind   string             `json:"kind"`
	Load   int                `json:"load"`
	Length float64            `json:"length"`
	Stops  []PlanStopResponse `json:"stops"`
}

type PlanResponse struct {
	Seed      int64               `json:"seed"`
	FleetSize int                 `json:"fleet_size"`
	Passes    int                 `json:"passes"`
	Routes    []PlanRouteResponse `json:"routes"`
	Dispatch  []PlanRouteResponse `json:"dispatch"`
	Unrouted  []string            `json:"unrouted"`
}
