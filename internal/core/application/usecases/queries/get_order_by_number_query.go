package queries

import (
	"errors"
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetOrderByNumberQueryIsNotConstructed = errors.New(
		"GetOrderByNumberQuery must be created via NewGetOrderByNumberQuery constructor",
	)
)

// GetOrderByNumberQuery looks up an order by its customer-facing number.
// The viewer may be anonymous; only the owning customer and admins see
// the full projection.
//
// Example:
//
//	query, err := NewGetOrderByNumberQuery(principal, "ORD-20240301-00042")
//	view, err := handler.Handle(ctx, query)
type GetOrderByNumberQuery struct {
	viewer kernel.Principal
	number string

	guard guard.ConstructorGuard
}

func NewGetOrderByNumberQuery(viewer kernel.Principal, number string) (GetOrderByNumberQuery, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return GetOrderByNumberQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return GetOrderByNumberQuery{viewer: viewer, number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderByNumberQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderByNumberQueryIsNotConstructed)
}

func (q GetOrderByNumberQuery) Number() string {
	return q.number
}

func (q GetOrderByNumberQuery) Viewer() kernel.Principal {
	return q.viewer
}
