package commands

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrForceOrderStatusCommandIsNotConstructed = errors.New(
		"ForceOrderStatusCommand must be created via NewForceOrderStatusCommand constructor",
	)
)

// ForceOrderStatusCommand is the audited override channel: it sets any valid
// status regardless of the transition graph.
type ForceOrderStatusCommand struct {
	principal kernel.Principal
	orderID   kernel.UUID
	status    order.Status
	note      string

	guard guard.ConstructorGuard
}

func NewForceOrderStatusCommand(
	principal kernel.Principal,
	orderID string,
	status string,
	note string,
) (ForceOrderStatusCommand, error) {
	if err := requireAuthenticated(principal); err != nil {
		return ForceOrderStatusCommand{}, err
	}

	id, idErr := parseOrderID(orderID)
	var statusErr error
	parsed := order.Unknown
	if strings.TrimSpace(status) == "" {
		statusErr = errs.NewValueIsRequiredError("status")
	} else {
		parsed, statusErr = order.ParseStatus(status)
	}
	if err := errors.Join(idErr, statusErr); err != nil {
		return ForceOrderStatusCommand{}, err
	}

	return ForceOrderStatusCommand{
		principal: principal,
		orderID:   id,
		status:    parsed,
		note:      strings.TrimSpace(note),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ForceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrForceOrderStatusCommandIsNotConstructed)
}

func (c ForceOrderStatusCommand) Principal() kernel.Principal {
	return c.principal
}

func (c ForceOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ForceOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c ForceOrderStatusCommand) Note() string {
	return c.note
}
