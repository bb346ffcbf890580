package dto

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Delivery is the wire form of a delivery. ID may be omitted on input.
type Delivery struct {
	ID       string  `json:"id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Demand   int     `json:"demand"`
	Earliest float64 `json:"earliest"`
	Latest   float64 `json:"latest"`
}

type ListDeliveriesResponse struct {
	Deliveries []Delivery `json:"deliveries"`
}

type SaveDeliveriesRequest struct {
	Deliveries []Delivery `json:"deliveries"`
}

type SaveDeliveriesResponse struct {
	Saved int      `json:"saved"`
	IDs   []string `json:"ids"`
}
