package order

import (
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// Status represents the fulfillment stage of an order.
// It implements the guarded state machine every status change goes through
// unless an administrator explicitly forces a value.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of orders whose payment is not settled yet.
	Pending

	// Confirmed orders are accepted by the restaurant and may still be cancelled.
	Confirmed

	// Preparing orders are in the kitchen.
	Preparing

	// Ready orders wait for pickup by the delivery rider.
	Ready

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getGuardedEdges returns the allowed-edge graph of the guarded API.
func getGuardedEdges() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready},
		Ready:     {Delivered},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, Delivered, Cancelled}
}

// ParseStatus converts the wire/persistence representation into a Status.
// Matching is case-insensitive.
//
// Example:
//
//	s, err := order.ParseStatus("Confirmed") // order.Confirmed, nil
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", value))
}

// Validate checks that the status is one of the known lifecycle values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no edge leads out of the status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanCancel reports whether the order may still be cancelled.
func (s Status) CanCancel() bool {
	return s == Pending || s == Confirmed
}

// Next validates a guarded transition from s to requested.
//
// Returns:
//   - (requested, nil) when the edge exists in the graph
//   - (Unknown, *errs.ValueIsInvalidError) when requested is not a valid status
//   - (Unknown, *errs.InvalidTransitionError) for any other requested value,
//     including staying in the same status or skipping stages
//
// Example:
//
//	next, err := order.Pending.Next(order.Ready)
//	// err is *errs.InvalidTransitionError{Current: "pending", Attempted: "ready"}
func (s Status) Next(requested Status) (Status, error) {
	if err := requested.Validate(); err != nil {
		return Unknown, err
	}
	for _, allowed := range getGuardedEdges()[s] {
		if allowed == requested {
			return requested, nil
		}
	}
	return Unknown, errs.NewInvalidTransitionError(s.String(), requested.String())
}
