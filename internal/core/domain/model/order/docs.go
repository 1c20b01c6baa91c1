// Package order provides the Order aggregate of the ordering service together
// with the pure decision logic that governs it.
//
// The package includes:
//   - Order: the aggregate root holding the line-item snapshot, totals, both
//     lifecycle axes and the append-only status history
//   - Status: the guarded fulfillment state machine
//     (pending -> confirmed -> preparing -> ready -> delivered, cancel from pending/confirmed)
//   - PaymentMethod and PaymentStatus: the independent settlement axis
//   - InitialState: the payment-method policy applied once at creation
//
// Key business rules:
//   - totalAmount is computed once from the line items, delivery fee, tax and discount
//   - the last history entry always mirrors the current status
//   - deliveredAt is present exactly when the order is delivered
//   - cancellationReason is only ever set on cancelled orders
//   - ForceStatus is the only way around the transition graph and is audited in the history
package order
