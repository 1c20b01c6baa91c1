package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand cancels a pending or confirmed order on behalf of its
// customer or an administrator.
type CancelOrderCommand struct {
	principal kernel.Principal
	orderID   kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(principal kernel.Principal, orderID, reason string) (CancelOrderCommand, error) {
	if err := requireAuthenticated(principal); err != nil {
		return CancelOrderCommand{}, err
	}

	id, err := parseOrderID(orderID)
	if err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		principal: principal,
		orderID:   id,
		reason:    strings.TrimSpace(reason),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Principal() kernel.Principal {
	return c.principal
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
