package queries

import (
	"context"
	"errors"
	"log/slog"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// GetOrderByNumberQueryHandler returns one order joined with the restaurant's
// name and phone and the line items' names. Viewers other than the owner or an
// admin get the tracking projection.
// Catalog rows deleted since checkout leave those fields empty; the order
// itself is still returned.
type GetOrderByNumberQueryHandler struct {
	orders  OrderReader
	catalog ports.CatalogGateway
	logger  *slog.Logger
}

func NewGetOrderByNumberQueryHandler(
	orders OrderReader,
	catalog ports.CatalogGateway,
	logger *slog.Logger,
) GetOrderByNumberQueryHandler {
	return GetOrderByNumberQueryHandler{
		orders:  orders,
		catalog: catalog,
		logger:  logger.With("component", "get-order-by-number"),
	}
}

func (h GetOrderByNumberQueryHandler) Handle(ctx context.Context, query GetOrderByNumberQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.GetByNumber(ctx, query.Number())
	if err != nil {
		return OrderView{}, err
	}

	items := o.Items()
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.FoodItemID())
	}
	names, err := h.catalog.FoodItemNames(ctx, ids)
	if err != nil {
		return OrderView{}, err
	}
	byID := make(map[string]string, len(names))
	for id, name := range names {
		byID[id.String()] = name
	}

	view := NewOrderView(o, byID)

	restaurant, err := h.catalog.GetRestaurant(ctx, o.RestaurantID())
	switch {
	case err == nil:
		view.Restaurant.Name = restaurant.Name
		view.Restaurant.Phone = restaurant.Phone
	case errors.Is(err, errs.ErrObjectNotFound):
		h.logger.Warn("restaurant of order no longer in catalog",
			"order_number", o.Number(), "restaurant_id", o.RestaurantID().String())
	default:
		return OrderView{}, err
	}

	viewer := query.Viewer()
	if !viewer.IsAdmin() && (!viewer.IsAuthenticated() || viewer.ID() != o.CustomerID()) {
		return view.Tracking(), nil
	}
	return view, nil
}
