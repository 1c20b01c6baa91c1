// Package queries contains the read side of the Order Lifecycle Service.
// Query handlers never mutate state; they read through OrderReader and enrich
// the result with catalog data where the projection needs it.
package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// OrderReader is the read-only slice of ports.OrderRepository.
type OrderReader interface {
	GetByNumber(ctx context.Context, number string) (*order.Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error)
	FindForAdmin(ctx context.Context, filter ports.AdminOrderFilter) ([]*order.Order, error)
	Stats(ctx context.Context, now time.Time) (ports.OrderStats, error)
}

func requireAdmin(principal kernel.Principal, action string) error {
	if !principal.IsAuthenticated() {
		return errs.NewUnauthenticatedError("")
	}
	if !principal.IsAdmin() {
		return errs.NewForbiddenError(action)
	}
	return nil
}
