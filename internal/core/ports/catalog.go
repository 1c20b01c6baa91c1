package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
)

// Restaurant is the slice of the catalog the ordering service reads.
type Restaurant struct {
	ID               kernel.UUID
	Name             string
	Phone            string
	DeliveryFee      int64
	DeliveryDuration time.Duration
}

// CatalogGateway reads the restaurant catalog owned by another subsystem.
type CatalogGateway interface {
	// GetRestaurant returns *errs.ObjectNotFoundError for unknown ids.
	GetRestaurant(ctx context.Context, id kernel.UUID) (Restaurant, error)

	// FoodItemNames maps food item ids to names; unknown ids are omitted.
	FoodItemNames(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]string, error)
}
