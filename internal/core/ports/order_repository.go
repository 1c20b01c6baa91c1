package ports

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// ErrDuplicateOrderNumber is returned by Add when the order number is already taken.
var ErrDuplicateOrderNumber = errors.New("order number is already taken")

// DefaultAdminPageSize bounds FindForAdmin when no limit is given.
const DefaultAdminPageSize = 100

// AdminOrderFilter narrows the administrative order search. Zero values mean "no filter".
// DateFrom and DateTo are inclusive bounds on creation time; Search is a
// case-insensitive substring match on order number, contact name and delivery address.
type AdminOrderFilter struct {
	Status       *order.Status
	RestaurantID *kernel.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
	Limit        int
	Offset       int
}

// DailyRevenue is the paid revenue of one calendar day (UTC), in minor units.
type DailyRevenue struct {
	Day     time.Time
	Revenue int64
}

// OrderStats is the read-only dashboard aggregate.
type OrderStats struct {
	TotalOrders    int64
	PendingOrders  int64
	TotalRevenue   int64
	RecentOrders   int64
	OrdersByStatus map[order.Status]int64
	RevenueByDay   []DailyRevenue
}

// OrderRepository defines the persistence contract for order aggregates.
//
// UpdateStatus and UpdatePayment are compare-and-swap writes on the order
// version: when another writer changed the order since it was loaded they
// return *errs.ConcurrentModificationError and persist nothing.
type OrderRepository interface {
	// Add persists a new order with its line items and first history entry.
	// A taken order number yields an error wrapping ErrDuplicateOrderNumber.
	Add(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus persists status, deliveredAt, cancellationReason and the new history entries.
	UpdateStatus(ctx context.Context, aggregate *order.Order) error

	// UpdatePayment persists paymentStatus, paymentNote and the new history entries.
	UpdatePayment(ctx context.Context, aggregate *order.Order) error

	// Get returns *errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetByCustomer returns the customer's orders, newest first.
	GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error)

	// FindForAdmin returns matching orders, newest first.
	FindForAdmin(ctx context.Context, filter AdminOrderFilter) ([]*order.Order, error)

	// Stats computes the dashboard aggregate relative to now.
	Stats(ctx context.Context, now time.Time) (OrderStats, error)
}
