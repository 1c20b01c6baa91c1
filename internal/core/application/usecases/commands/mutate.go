package commands

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

type persistFunc func(ctx context.Context, repo ports.OrderRepository, o *order.Order) error

func persistStatus(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	return repo.UpdateStatus(ctx, o)
}

func persistPayment(ctx context.Context, repo ports.OrderRepository, o *order.Order) error {
	return repo.UpdatePayment(ctx, o)
}

// mutateOrder loads an order inside a transaction, applies mutate and persists
// the result. Nothing is written when mutate fails.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	mutate func(o *order.Order) error,
	persist persistFunc,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = mutate(o); err != nil {
		return nil, err
	}

	if err = persist(ctx, repo, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
