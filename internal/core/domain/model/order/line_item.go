package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

const (
	MaxItemQuantity = 1000
	// MaxUnitPrice is 1,000,000.00 in minor units.
	MaxUnitPrice int64 = 100_000_000
)

// LineItem is a food item snapshot taken at checkout. Its unit price is never
// recomputed against the live catalog.
type LineItem struct {
	foodItemID kernel.UUID
	quantity   int
	unitPrice  int64
	notes      string
}

// NewLineItem validates a cart line. Prices are in minor currency units.
func NewLineItem(foodItemID kernel.UUID, quantity int, unitPrice int64, notes string) (LineItem, error) {
	var problems []error
	if err := foodItemID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("items.id", err))
	}
	switch {
	case quantity < 1:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("items.quantity",
			fmt.Errorf("%d is less than 1", quantity)))
	case quantity > MaxItemQuantity:
		problems = append(problems, errs.NewValueIsOutOfRangeError("items.quantity", quantity, 1, MaxItemQuantity))
	}
	switch {
	case unitPrice < 0:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("items.price",
			fmt.Errorf("%d is negative", unitPrice)))
	case unitPrice > MaxUnitPrice:
		problems = append(problems, errs.NewValueIsOutOfRangeError("items.price", unitPrice, 0, MaxUnitPrice))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		foodItemID: foodItemID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		notes:      strings.TrimSpace(notes),
	}, nil
}

func (l LineItem) FoodItemID() kernel.UUID {
	return l.foodItemID
}

func (l LineItem) Quantity() int {
	return l.quantity
}

func (l LineItem) UnitPrice() int64 {
	return l.unitPrice
}

func (l LineItem) Notes() string {
	return l.notes
}

// Subtotal is unitPrice × quantity.
func (l LineItem) Subtotal() int64 {
	return l.unitPrice * int64(l.quantity)
}

// HistoryEntry is one append-only record of the status audit trail.
type HistoryEntry struct {
	status    Status
	timestamp time.Time
	notes     string
}

// RestoreHistoryEntry rebuilds an entry loaded from persistence.
func RestoreHistoryEntry(status Status, timestamp time.Time, notes string) HistoryEntry {
	return HistoryEntry{status: status, timestamp: timestamp, notes: notes}
}

func (h HistoryEntry) Status() Status {
	return h.status
}

func (h HistoryEntry) Timestamp() time.Time {
	return h.timestamp
}

func (h HistoryEntry) Notes() string {
	return h.notes
}
