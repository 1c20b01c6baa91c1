package queries

import (
	"time"

	"ordering/internal/core/domain/model/order"
)

// LineItemView is a line item as shown to clients. Name is empty when the
// food item no longer exists in the catalog.
type LineItemView struct {
	FoodItemID string
	Name       string
	Quantity   int
	UnitPrice  int64
	Subtotal   int64
	Notes      string
}

type HistoryEntryView struct {
	Status    string
	Timestamp time.Time
	Notes     string
}

type RestaurantView struct {
	ID    string
	Name  string
	Phone string
}

// OrderView is the full order projection returned by every query.
type OrderView struct {
	ID                    string
	OrderNumber           string
	CustomerID            string
	Restaurant            RestaurantView
	Items                 []LineItemView
	Subtotal              int64
	DeliveryFee           int64
	Tax                   int64
	Discount              int64
	TotalAmount           int64
	DeliveryAddress       string
	ContactName           string
	ContactPhone          string
	SpecialInstructions   string
	Status                string
	PaymentMethod         string
	PaymentStatus         string
	PaymentNote           string
	EstimatedDeliveryTime time.Time
	DeliveredAt           *time.Time
	CancellationReason    string
	StatusHistory         []HistoryEntryView
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewOrderView projects an aggregate. names maps food item ids to catalog
// names and may be nil.
func NewOrderView(o *order.Order, names map[string]string) OrderView {
	items := o.Items()
	itemViews := make([]LineItemView, 0, len(items))
	for _, item := range items {
		id := item.FoodItemID().String()
		itemViews = append(itemViews, LineItemView{
			FoodItemID: id,
			Name:       names[id],
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			Subtotal:   item.Subtotal(),
			Notes:      item.Notes(),
		})
	}

	history := o.History()
	historyViews := make([]HistoryEntryView, 0, len(history))
	for _, entry := range history {
		historyViews = append(historyViews, HistoryEntryView{
			Status:    entry.Status().String(),
			Timestamp: entry.Timestamp(),
			Notes:     entry.Notes(),
		})
	}

	return OrderView{
		ID:                    o.ID().String(),
		OrderNumber:           o.Number(),
		CustomerID:            o.CustomerID(),
		Restaurant:            RestaurantView{ID: o.RestaurantID().String()},
		Items:                 itemViews,
		Subtotal:              o.Subtotal(),
		DeliveryFee:           o.DeliveryFee(),
		Tax:                   o.Tax(),
		Discount:              o.Discount(),
		TotalAmount:           o.TotalAmount(),
		DeliveryAddress:       o.DeliveryAddress(),
		ContactName:           o.ContactName(),
		ContactPhone:          o.ContactPhone(),
		SpecialInstructions:   o.SpecialInstructions(),
		Status:                o.Status().String(),
		PaymentMethod:         o.PaymentMethod().String(),
		PaymentStatus:         o.PaymentStatus().String(),
		PaymentNote:           o.PaymentNote(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		DeliveredAt:           o.DeliveredAt(),
		CancellationReason:    o.CancellationReason(),
		StatusHistory:         historyViews,
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}

// Tracking strips the customer's personal details and free-text notes,
// leaving what anyone holding the order number may see.
func (v OrderView) Tracking() OrderView {
	v.ID = ""
	v.CustomerID = ""
	v.DeliveryAddress = ""
	v.ContactName = ""
	v.ContactPhone = ""
	v.SpecialInstructions = ""
	v.PaymentNote = ""
	v.CancellationReason = ""

	items := make([]LineItemView, len(v.Items))
	for i, item := range v.Items {
		item.Notes = ""
		items[i] = item
	}
	v.Items = items

	history := make([]HistoryEntryView, len(v.StatusHistory))
	for i, entry := range v.StatusHistory {
		entry.Notes = ""
		history[i] = entry
	}
	v.StatusHistory = history
	return v
}

func newOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o, nil))
	}
	return views
}
