package services

import (
	"time"

	"ordering/internal/core/domain/model/order"
)

// AutoDeliveryOutcome is the result of one deferred auto-delivery check.
type AutoDeliveryOutcome string

const (
	// OutcomeDelivered means the order was promoted to delivered.
	OutcomeDelivered AutoDeliveryOutcome = "delivered"

	// OutcomeAlreadyTerminal means the order was already delivered or cancelled; nothing changed.
	OutcomeAlreadyTerminal AutoDeliveryOutcome = "already_terminal"

	// OutcomeNotEligible means the payment rule did not hold; nothing changed.
	OutcomeNotEligible AutoDeliveryOutcome = "not_eligible"
)

// AutoDeliveryPolicy is the domain service deciding whether an order whose
// delivery window elapsed may be marked delivered without an administrator.
//
// Business rules:
//   - delivered and cancelled orders are left untouched, so repeated checks are harmless
//   - an order qualifies when it is paid, when it is paid in cash on delivery,
//     or when it is a confirmed bank transfer
//
// Example usage:
//
//	policy := services.NewAutoDeliveryPolicy()
//	outcome, err := policy.Apply(o, time.Now())
//	if outcome == services.OutcomeDelivered {
//	    // persist o and notify the customer
//	}
type AutoDeliveryPolicy struct{}

func NewAutoDeliveryPolicy() AutoDeliveryPolicy {
	return AutoDeliveryPolicy{}
}

// ShouldAutoDeliver evaluates the payment rule only; it does not look at terminal states.
func (AutoDeliveryPolicy) ShouldAutoDeliver(o *order.Order) bool {
	return o.PaymentStatus() == order.PaymentPaid ||
		o.PaymentMethod() == order.PaymentCash ||
		(o.PaymentMethod() == order.PaymentTransfer && o.Status() == order.Confirmed)
}

// Evaluate returns what Apply would do without mutating the order.
func (p AutoDeliveryPolicy) Evaluate(o *order.Order) (AutoDeliveryOutcome, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	if o.Status().IsTerminal() {
		return OutcomeAlreadyTerminal, nil
	}
	if !p.ShouldAutoDeliver(o) {
		return OutcomeNotEligible, nil
	}
	return OutcomeDelivered, nil
}

// Apply evaluates the order and, when eligible, promotes it to delivered at the given time.
func (p AutoDeliveryPolicy) Apply(o *order.Order, at time.Time) (AutoDeliveryOutcome, error) {
	outcome, err := p.Evaluate(o)
	if err != nil || outcome != OutcomeDelivered {
		return outcome, err
	}
	if err = o.AutoDeliver(at); err != nil {
		return "", err
	}
	return OutcomeDelivered, nil
}
