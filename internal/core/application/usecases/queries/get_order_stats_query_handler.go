package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
)

type DailyRevenueView struct {
	Date    string
	Revenue int64
}

// OrderStatsView is the dashboard aggregate. OrdersByStatus has a key for
// every status, zero when no order is in it.
type OrderStatsView struct {
	TotalOrders    int64
	PendingOrders  int64
	TotalRevenue   int64
	RecentOrders   int64
	OrdersByStatus map[string]int64
	RevenueByDay   []DailyRevenueView
}

type GetOrderStatsQueryHandler struct {
	orders OrderReader
	now    func() time.Time
}

func NewGetOrderStatsQueryHandler(orders OrderReader) GetOrderStatsQueryHandler {
	return GetOrderStatsQueryHandler{orders: orders, now: time.Now}
}

func (h GetOrderStatsQueryHandler) Handle(ctx context.Context, query GetOrderStatsQuery) (OrderStatsView, error) {
	if err := query.Validate(); err != nil {
		return OrderStatsView{}, err
	}

	if err := requireAdmin(query.Principal(), "view order statistics"); err != nil {
		return OrderStatsView{}, err
	}

	stats, err := h.orders.Stats(ctx, h.now().UTC())
	if err != nil {
		return OrderStatsView{}, err
	}

	byStatus := make(map[string]int64, len(order.AllStatuses()))
	for _, status := range order.AllStatuses() {
		byStatus[status.String()] = stats.OrdersByStatus[status]
	}

	revenue := make([]DailyRevenueView, 0, len(stats.RevenueByDay))
	for _, day := range stats.RevenueByDay {
		revenue = append(revenue, DailyRevenueView{Date: day.Day.Format(time.DateOnly), Revenue: day.Revenue})
	}

	return OrderStatsView{
		TotalOrders:    stats.TotalOrders,
		PendingOrders:  stats.PendingOrders,
		TotalRevenue:   stats.TotalRevenue,
		RecentOrders:   stats.RecentOrders,
		OrdersByStatus: byStatus,
		RevenueByDay:   revenue,
	}, nil
}
