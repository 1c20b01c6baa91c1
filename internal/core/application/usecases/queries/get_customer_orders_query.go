package queries

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
)

// GetCustomerOrdersQuery lists the caller's own orders.
type GetCustomerOrdersQuery struct {
	customerID string

	guard guard.ConstructorGuard
}

func NewGetCustomerOrdersQuery(principal kernel.Principal) (GetCustomerOrdersQuery, error) {
	if !principal.IsAuthenticated() {
		return GetCustomerOrdersQuery{}, errs.NewUnauthenticatedError("")
	}
	return GetCustomerOrdersQuery{customerID: principal.ID(), guard: guard.NewConstructorGuard()}, nil
}

func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) CustomerID() string {
	return q.customerID
}
