package queries

import (
	"context"
)

// GetCustomerOrdersQueryHandler returns the customer's orders, newest first.
type GetCustomerOrdersQueryHandler struct {
	orders OrderReader
}

func NewGetCustomerOrdersQueryHandler(orders OrderReader) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{orders: orders}
}

func (h GetCustomerOrdersQueryHandler) Handle(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.GetByCustomer(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}

	return newOrderViews(orders), nil
}
