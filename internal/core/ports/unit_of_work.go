package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained after Begin share its transaction; before Begin they
// run directly against the database.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if there is no active transaction.
	Commit(ctx context.Context) error

	// Rollback returns an error if there is no active transaction, so it is safe to defer after Commit.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DeliveryScheduleRepository() DeliveryScheduleRepository
	OutboxRepository() OutboxRepository
}
