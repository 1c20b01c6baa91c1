// Package commands contains the Order Lifecycle Service operations that modify state.
// Every command follows the same pattern: a validated command value, a handler
// that authorizes the caller, loads the aggregate through a unit of work,
// applies a domain method, persists with a compare-and-swap and commits.
// Side effects (notifications, cart clearing) run after the commit and never
// undo it.
package commands

import (
	"context"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ScheduleRepoFactory provides access to the auto-delivery schedule within a transaction.
	ScheduleRepoFactory interface {
		DeliveryScheduleRepository() ports.DeliveryScheduleRepository
	}

	// OutboxRepoFactory provides access to the outbox within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LifecycleUoW spans the order, its auto-delivery schedule and the outbox.
	// Used by creation and auto-delivery, which must touch more than one table atomically.
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		ScheduleRepoFactory
		OutboxRepoFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}
)

// Notifier is the Notification Dispatcher as seen by command handlers.
// Implementations must not block on or report delivery failures.
type Notifier interface {
	OrderCreated(ctx context.Context, o *order.Order)
	OrderDelivered(ctx context.Context, o *order.Order)
}
