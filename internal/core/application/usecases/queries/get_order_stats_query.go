package queries

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetOrderStatsQueryIsNotConstructed = errors.New(
		"GetOrderStatsQuery must be created via NewGetOrderStatsQuery constructor",
	)
)

// GetOrderStatsQuery requests the dashboard aggregate.
type GetOrderStatsQuery struct {
	principal kernel.Principal

	guard guard.ConstructorGuard
}

func NewGetOrderStatsQuery(principal kernel.Principal) GetOrderStatsQuery {
	return GetOrderStatsQuery{principal: principal, guard: guard.NewConstructorGuard()}
}

func (q GetOrderStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatsQueryIsNotConstructed)
}

func (q GetOrderStatsQuery) Principal() kernel.Principal {
	return q.principal
}
