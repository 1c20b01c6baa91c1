package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrAutoDeliverOrderCommandIsNotConstructed = errors.New(
		"AutoDeliverOrderCommand must be created via NewAutoDeliverOrderCommand constructor",
	)
)

// AutoDeliverOrderCommand runs the deferred auto-delivery check of one order.
type AutoDeliverOrderCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAutoDeliverOrderCommand(orderID kernel.UUID) (AutoDeliverOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AutoDeliverOrderCommand{}, err
	}
	return AutoDeliverOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AutoDeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrAutoDeliverOrderCommandIsNotConstructed)
}

func (c AutoDeliverOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
