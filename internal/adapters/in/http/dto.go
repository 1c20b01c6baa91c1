package http

import (
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/order"
)

type NewOrderItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Notes    string `json:"notes"`
}

type NewOrder struct {
	RestaurantID        string         `json:"restaurantId"`
	DeliveryAddress     string         `json:"deliveryAddress"`
	ContactPhone        string         `json:"contactPhone"`
	ContactName         string         `json:"contactName"`
	Items               []NewOrderItem `json:"items"`
	PaymentMethod       string         `json:"paymentMethod"`
	SpecialInstructions string         `json:"specialInstructions"`
	TransferProof       string         `json:"transferProof"`
}

func (n NewOrder) commandItems() []commands.CreateOrderItem {
	items := make([]commands.CreateOrderItem, 0, len(n.Items))
	for _, item := range n.Items {
		items = append(items, commands.CreateOrderItem{
			FoodItemID: item.ID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Notes:      item.Notes,
		})
	}
	return items
}

type OrderUpdate struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	StatusNotes   string `json:"statusNotes"`
}

type ForceStatus struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type Cancellation struct {
	Reason string `json:"reason"`
}

type CreatedOrder struct {
	OrderID               string    `json:"orderId"`
	OrderNumber           string    `json:"orderNumber"`
	TotalAmount           int64     `json:"totalAmount"`
	EstimatedDeliveryTime time.Time `json:"estimatedDeliveryTime"`
	PaymentMethod         string    `json:"paymentMethod"`
	PaymentStatus         string    `json:"paymentStatus"`
	Status                string    `json:"status"`
}

func newCreatedOrder(o *order.Order) CreatedOrder {
	return CreatedOrder{
		OrderID:               o.ID().String(),
		OrderNumber:           o.Number(),
		TotalAmount:           o.TotalAmount(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		PaymentMethod:         o.PaymentMethod().String(),
		PaymentStatus:         o.PaymentStatus().String(),
		Status:                o.Status().String(),
	}
}

type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	Subtotal int64  `json:"subtotal"`
	Notes    string `json:"notes,omitempty"`
}

type HistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type Restaurant struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Order struct {
	ID                    string         `json:"id,omitempty"`
	OrderNumber           string         `json:"orderNumber"`
	CustomerID            string         `json:"customerId,omitempty"`
	Restaurant            Restaurant     `json:"restaurant"`
	Items                 []LineItem     `json:"items"`
	Subtotal              int64          `json:"subtotal"`
	DeliveryFee           int64          `json:"deliveryFee"`
	Tax                   int64          `json:"tax"`
	Discount              int64          `json:"discount"`
	TotalAmount           int64          `json:"totalAmount"`
	DeliveryAddress       string         `json:"deliveryAddress,omitempty"`
	ContactName           string         `json:"contactName,omitempty"`
	ContactPhone          string         `json:"contactPhone,omitempty"`
	SpecialInstructions   string         `json:"specialInstructions,omitempty"`
	Status                string         `json:"status"`
	PaymentMethod         string         `json:"paymentMethod"`
	PaymentStatus         string         `json:"paymentStatus"`
	PaymentNote           string         `json:"paymentNote,omitempty"`
	EstimatedDeliveryTime time.Time      `json:"estimatedDeliveryTime"`
	DeliveredAt           *time.Time     `json:"deliveredAt,omitempty"`
	CancellationReason    string         `json:"cancellationReason,omitempty"`
	StatusHistory         []HistoryEntry `json:"statusHistory"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func newOrderResponse(v queries.OrderView) Order {
	items := make([]LineItem, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, LineItem{
			ID:       item.FoodItemID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			Subtotal: item.Subtotal,
			Notes:    item.Notes,
		})
	}

	history := make([]HistoryEntry, 0, len(v.StatusHistory))
	for _, entry := range v.StatusHistory {
		history = append(history, HistoryEntry{Status: entry.Status, Timestamp: entry.Timestamp, Notes: entry.Notes})
	}

	return Order{
		ID:                    v.ID,
		OrderNumber:           v.OrderNumber,
		CustomerID:            v.CustomerID,
		Restaurant:            Restaurant{ID: v.Restaurant.ID, Name: v.Restaurant.Name, Phone: v.Restaurant.Phone},
		Items:                 items,
		Subtotal:              v.Subtotal,
		DeliveryFee:           v.DeliveryFee,
		Tax:                   v.Tax,
		Discount:              v.Discount,
		TotalAmount:           v.TotalAmount,
		DeliveryAddress:       v.DeliveryAddress,
		ContactName:           v.ContactName,
		ContactPhone:          v.ContactPhone,
		SpecialInstructions:   v.SpecialInstructions,
		Status:                v.Status,
		PaymentMethod:         v.PaymentMethod,
		PaymentStatus:         v.PaymentStatus,
		PaymentNote:           v.PaymentNote,
		EstimatedDeliveryTime: v.EstimatedDeliveryTime,
		DeliveredAt:           v.DeliveredAt,
		CancellationReason:    v.CancellationReason,
		StatusHistory:         history,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}

func newOrderResponses(views []queries.OrderView) []Order {
	result := make([]Order, 0, len(views))
	for _, v := range views {
		result = append(result, newOrderResponse(v))
	}
	return result
}

// newAggregateResponse projects a freshly mutated order; catalog names are not joined.
func newAggregateResponse(o *order.Order) Order {
	return newOrderResponse(queries.NewOrderView(o, nil))
}

type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type OrderStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	PendingOrders  int64            `json:"pendingOrders"`
	TotalRevenue   int64            `json:"totalRevenue"`
	RecentOrders   int64            `json:"recentOrders"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	RevenueByDay   []DailyRevenue   `json:"revenueByDay"`
}

func newOrderStats(v queries.OrderStatsView) OrderStats {
	days := make([]DailyRevenue, 0, len(v.RevenueByDay))
	for _, d := range v.RevenueByDay {
		days = append(days, DailyRevenue{Date: d.Date, Revenue: d.Revenue})
	}
	return OrderStats{
		TotalOrders:    v.TotalOrders,
		PendingOrders:  v.PendingOrders,
		TotalRevenue:   v.TotalRevenue,
		RecentOrders:   v.RecentOrders,
		OrdersByStatus: v.OrdersByStatus,
		RevenueByDay:   days,
	}
}
