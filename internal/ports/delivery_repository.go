package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Port: a boundary for reading and storing Delivery entities.
type DeliveryRepository interface {
	// Retrieve all deliveries available for routing, ordered by id.
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	// Insert or replace deliveries by id.
	SaveDeliveries(ctx context.Context, deliveries []domain.Delivery) error
}
