package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// Snapshot is the persisted state of an order, used by repositories to rebuild the aggregate.
type Snapshot struct {
	ID                    kernel.UUID
	Number                string
	CustomerID            string
	CustomerEmail         string
	RestaurantID          kernel.UUID
	Items                 []LineItem
	Subtotal              int64
	DeliveryFee           int64
	Tax                   int64
	Discount              int64
	TotalAmount           int64
	DeliveryAddress       string
	ContactName           string
	ContactPhone          string
	SpecialInstructions   string
	Status                Status
	PaymentMethod         PaymentMethod
	PaymentStatus         PaymentStatus
	PaymentNote           string
	TransferProof         string
	EstimatedDeliveryTime time.Time
	DeliveredAt           *time.Time
	CancellationReason    string
	History               []HistoryEntry
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Version               int
}

// RestoreOrder rebuilds an order from persistence without re-running the creation
// policy. Totals are taken as stored. Snapshots that break the status invariants are
// rejected so corrupted rows never reach the lifecycle service.
func RestoreOrder(s Snapshot) (*Order, error) {
	var problems []error
	if err := s.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := s.Status.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := s.PaymentMethod.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := s.PaymentStatus.Validate(); err != nil {
		problems = append(problems, err)
	}
	if len(s.History) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("statusHistory"))
	} else if last := s.History[len(s.History)-1].Status(); last != s.Status {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("last entry %s does not mirror status %s", last, s.Status)))
	}
	if (s.DeliveredAt != nil) != (s.Status == Delivered) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("deliveredAt",
			fmt.Errorf("deliveredAt presence does not match status %s", s.Status)))
	}
	if s.CancellationReason != "" && s.Status != Cancelled {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("cancellationReason",
			fmt.Errorf("set while status is %s", s.Status)))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	var deliveredAt *time.Time
	if s.DeliveredAt != nil {
		at := *s.DeliveredAt
		deliveredAt = &at
	}

	return &Order{
		id:                  s.ID,
		number:              s.Number,
		customerID:          s.CustomerID,
		customerEmail:       s.CustomerEmail,
		restaurantID:        s.RestaurantID,
		items:               append([]LineItem(nil), s.Items...),
		subtotal:            s.Subtotal,
		deliveryFee:         s.DeliveryFee,
		tax:                 s.Tax,
		discount:            s.Discount,
		totalAmount:         s.TotalAmount,
		deliveryAddress:     s.DeliveryAddress,
		contactName:         s.ContactName,
		contactPhone:        s.ContactPhone,
		specialInstructions: s.SpecialInstructions,
		status:              s.Status,
		paymentMethod:       s.PaymentMethod,
		paymentStatus:       s.PaymentStatus,
		paymentNote:         s.PaymentNote,
		transferProof:       s.TransferProof,
		estimatedDelivery:   s.EstimatedDeliveryTime,
		deliveredAt:         deliveredAt,
		cancellationReason:  s.CancellationReason,
		history:             append([]HistoryEntry(nil), s.History...),
		persistedHistory:    len(s.History),
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		version:             s.Version,
		guard:               guard.NewConstructorGuard(),
	}, nil
}
