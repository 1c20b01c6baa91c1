package queries

import (
	"context"
)

// ListAdminOrdersQueryHandler runs the administrative search, newest first.
type ListAdminOrdersQueryHandler struct {
	orders OrderReader
}

func NewListAdminOrdersQueryHandler(orders OrderReader) ListAdminOrdersQueryHandler {
	return ListAdminOrdersQueryHandler{orders: orders}
}

func (h ListAdminOrdersQueryHandler) Handle(ctx context.Context, query ListAdminOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := requireAdmin(query.Principal(), "list orders"); err != nil {
		return nil, err
	}

	orders, err := h.orders.FindForAdmin(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	return newOrderViews(orders), nil
}
