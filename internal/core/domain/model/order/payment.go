package order

import (
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// PaymentMethod is chosen by the customer at checkout and never changes afterwards.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if err := method.Validate(); err != nil {
		return "", err
	}
	return method, nil
}

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", string(m)))
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus is the settlement axis of an order, independent from Status.
//
//	pending ──> paid
//	   └──────> failed
//
// Administrators may correct it to any value at any time.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(value)))
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(p)))
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}

// Next accepts any valid requested value. The boolean is true when the move
// is off the pending->paid/failed graph, i.e. an administrative correction.
func (p PaymentStatus) Next(requested PaymentStatus) (PaymentStatus, bool, error) {
	if err := requested.Validate(); err != nil {
		return "", false, err
	}
	onGraph := p == PaymentPending && (requested == PaymentPaid || requested == PaymentFailed)
	return requested, !onGraph, nil
}

// InitialState is the payment-method policy applied once at creation.
//
//	cash             -> pending / pending, awaiting cash payment on delivery
//	card             -> confirmed / paid
//	transfer + proof -> confirmed / paid
//	transfer         -> pending / pending, instructions are sent to the customer
func InitialState(method PaymentMethod, hasTransferProof bool) (Status, PaymentStatus, string) {
	switch method {
	case PaymentCard:
		return Confirmed, PaymentPaid, "paid by card"
	case PaymentTransfer:
		if hasTransferProof {
			return Confirmed, PaymentPaid, "bank transfer proof received"
		}
		return Pending, PaymentPending, "awaiting bank transfer"
	default:
		return Pending, PaymentPending, "awaiting cash payment on delivery"
	}
}
