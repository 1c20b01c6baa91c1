package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

const maxAdminPageSize = 500

var (
	ErrListAdminOrdersQueryIsNotConstructed = errors.New(
		"ListAdminOrdersQuery must be created via NewListAdminOrdersQuery constructor",
	)
)

// AdminOrderFilterInput carries the raw filter values of the admin order list.
// Empty strings mean "no filter". Dates accept RFC 3339 or YYYY-MM-DD; a bare
// DateTo covers the whole day.
type AdminOrderFilterInput struct {
	Status       string
	RestaurantID string
	DateFrom     string
	DateTo       string
	Search       string
	Limit        int
	Offset       int
}

// ListAdminOrdersQuery is the administrative order search.
type ListAdminOrdersQuery struct {
	principal kernel.Principal
	filter    ports.AdminOrderFilter

	guard guard.ConstructorGuard
}

func NewListAdminOrdersQuery(principal kernel.Principal, input AdminOrderFilterInput) (ListAdminOrdersQuery, error) {
	q := ListAdminOrdersQuery{principal: principal, guard: guard.NewConstructorGuard()}
	q.filter.Search = strings.TrimSpace(input.Search)

	if err := errors.Join(
		q.setStatus(input.Status),
		q.setRestaurantID(input.RestaurantID),
		q.setDateRange(input.DateFrom, input.DateTo),
		q.setPage(input.Limit, input.Offset),
	); err != nil {
		return ListAdminOrdersQuery{}, err
	}

	return q, nil
}

func (q ListAdminOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListAdminOrdersQueryIsNotConstructed)
}

func (q ListAdminOrdersQuery) Principal() kernel.Principal {
	return q.principal
}

func (q ListAdminOrdersQuery) Filter() ports.AdminOrderFilter {
	return q.filter
}

func (q *ListAdminOrdersQuery) setStatus(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	status, err := order.ParseStatus(raw)
	if err != nil {
		return err
	}
	q.filter.Status = &status
	return nil
}

func (q *ListAdminOrdersQuery) setRestaurantID(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("restaurant", err)
	}
	q.filter.RestaurantID = &id
	return nil
}

func (q *ListAdminOrdersQuery) setDateRange(fromRaw, toRaw string) error {
	from, fromErr := parseDateBound("dateFrom", fromRaw, false)
	to, toErr := parseDateBound("dateTo", toRaw, true)
	if err := errors.Join(fromErr, toErr); err != nil {
		return err
	}
	if from != nil && to != nil && to.Before(*from) {
		return errs.NewValueIsOutOfRangeError("dateTo", to.Format(time.RFC3339), from.Format(time.RFC3339), "")
	}
	q.filter.DateFrom = from
	q.filter.DateTo = to
	return nil
}

func (q *ListAdminOrdersQuery) setPage(limit, offset int) error {
	if limit < 0 || limit > maxAdminPageSize {
		return errs.NewValueIsOutOfRangeError("limit", limit, 0, maxAdminPageSize)
	}
	if offset < 0 {
		return errs.NewValueIsInvalidErrorWithCause("offset", fmt.Errorf("%d is negative", offset))
	}
	if limit == 0 {
		limit = ports.DefaultAdminPageSize
	}
	q.filter.Limit = limit
	q.filter.Offset = offset
	return nil
}

func parseDateBound(name, raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent bound
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
