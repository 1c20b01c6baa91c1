package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const maxTaxBasisPoints = 10000

// Draft carries everything needed to open an order. NewOrder validates it.
type Draft struct {
	ID                  kernel.UUID
	Number              string
	CustomerID          string
	CustomerEmail       string
	RestaurantID        kernel.UUID
	Items               []LineItem
	DeliveryAddress     string
	ContactName         string
	ContactPhone        string
	SpecialInstructions string
	PaymentMethod       PaymentMethod
	TransferProof       string

	// Charges in minor currency units.
	DeliveryFee    int64
	TaxBasisPoints int64
	Discount       int64

	DeliveryDuration time.Duration
	CreatedAt        time.Time
}

// Order is the aggregate root of the ordering service. It owns the line-item
// snapshot, both lifecycle axes and the append-only status history.
//
// Order follows these invariants:
//   - totalAmount = Σ unitPrice×quantity + deliveryFee + tax − discount, fixed at creation
//   - the history is never empty and its last entry mirrors the current status
//   - history timestamps never decrease
//   - deliveredAt is set if and only if status is Delivered
//   - cancellationReason is empty unless status is Cancelled
type Order struct {
	id            kernel.UUID
	number        string
	customerID    string
	customerEmail string
	restaurantID  kernel.UUID
	items         []LineItem

	subtotal    int64
	deliveryFee int64
	tax         int64
	discount    int64
	totalAmount int64

	deliveryAddress     string
	contactName         string
	contactPhone        string
	specialInstructions string

	status             Status
	paymentMethod      PaymentMethod
	paymentStatus      PaymentStatus
	paymentNote        string
	transferProof      string
	estimatedDelivery  time.Time
	deliveredAt        *time.Time
	cancellationReason string

	history          []HistoryEntry
	persistedHistory int

	createdAt time.Time
	updatedAt time.Time
	version   int

	guard guard.ConstructorGuard
}

// NewOrder opens an order from a validated cart snapshot. The initial
// (status, paymentStatus, paymentNote) triple comes from InitialState and the
// first history entry is written with the creation timestamp.
//
// Validation errors for every offending field are joined, so callers can
// report them all at once.
//
// Example:
//
//	item, _ := order.NewLineItem(foodID, 2, 1500, "")
//	o, err := order.NewOrder(order.Draft{
//	    ID: kernel.NewUUID(), Number: "ORD-20240101-00001", CustomerID: "user-1",
//	    RestaurantID: restaurantID, Items: []order.LineItem{item},
//	    DeliveryAddress: "1 Main St", ContactName: "Ann", ContactPhone: "555",
//	    PaymentMethod: order.PaymentCash, DeliveryFee: 500, CreatedAt: time.Now(),
//	})
func NewOrder(d Draft) (*Order, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	subtotal, tax, total, err := charges(d)
	if err != nil {
		return nil, err
	}

	proof := strings.TrimSpace(d.TransferProof)
	status, paymentStatus, paymentNote := InitialState(d.PaymentMethod, proof != "")

	o := &Order{
		id:                  d.ID,
		number:              strings.TrimSpace(d.Number),
		customerID:          strings.TrimSpace(d.CustomerID),
		customerEmail:       strings.TrimSpace(d.CustomerEmail),
		restaurantID:        d.RestaurantID,
		items:               append([]LineItem(nil), d.Items...),
		subtotal:            subtotal,
		deliveryFee:         d.DeliveryFee,
		tax:                 tax,
		discount:            d.Discount,
		totalAmount:         total,
		deliveryAddress:     strings.TrimSpace(d.DeliveryAddress),
		contactName:         strings.TrimSpace(d.ContactName),
		contactPhone:        strings.TrimSpace(d.ContactPhone),
		specialInstructions: strings.TrimSpace(d.SpecialInstructions),
		status:              status,
		paymentMethod:       d.PaymentMethod,
		paymentStatus:       paymentStatus,
		paymentNote:         paymentNote,
		transferProof:       proof,
		estimatedDelivery:   d.CreatedAt.Add(d.DeliveryDuration),
		createdAt:           d.CreatedAt,
		updatedAt:           d.CreatedAt,
		guard:               guard.NewConstructorGuard(),
	}
	o.history = []HistoryEntry{{status: status, timestamp: d.CreatedAt, notes: "order created: " + paymentNote}}

	return o, nil
}

// charges computes subtotal, tax and total. Every step is overflow checked.
func charges(d Draft) (subtotal, tax, total int64, err error) {
	var ok bool
	for _, item := range d.Items {
		if subtotal, ok = addAmount(subtotal, item.Subtotal()); !ok {
			return 0, 0, 0, errs.NewValueIsOutOfRangeError("subtotal", "overflow", 0, int64(math.MaxInt64))
		}
	}
	if subtotal > math.MaxInt64/maxTaxBasisPoints {
		return 0, 0, 0, errs.NewValueIsOutOfRangeError("subtotal", subtotal, 0, int64(math.MaxInt64/maxTaxBasisPoints))
	}
	tax = subtotal * d.TaxBasisPoints / maxTaxBasisPoints

	gross, ok := addAmount(subtotal, d.DeliveryFee)
	if ok {
		gross, ok = addAmount(gross, tax)
	}
	if !ok {
		return 0, 0, 0, errs.NewValueIsOutOfRangeError("totalAmount", "overflow", 0, int64(math.MaxInt64))
	}
	if d.Discount > gross {
		return 0, 0, 0, errs.NewValueIsOutOfRangeError("discount", d.Discount, 0, gross)
	}
	return subtotal, tax, gross - d.Discount, nil
}

// addAmount adds two non-negative amounts and reports false on overflow.
func addAmount(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

func validateDraft(d Draft) error {
	var problems []error
	if err := d.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(d.Number) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("orderNumber"))
	}
	if strings.TrimSpace(d.CustomerID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("customerId"))
	}
	if err := d.RestaurantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("restaurantId", err))
	}
	if len(d.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("items"))
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if strings.TrimSpace(d.ContactName) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("contactName"))
	}
	if strings.TrimSpace(d.ContactPhone) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("contactPhone"))
	}
	if err := d.PaymentMethod.Validate(); err != nil {
		problems = append(problems, err)
	}
	if d.DeliveryFee < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("deliveryFee", fmt.Errorf("%d is negative", d.DeliveryFee)))
	}
	if d.TaxBasisPoints < 0 || d.TaxBasisPoints > maxTaxBasisPoints {
		problems = append(problems, errs.NewValueIsOutOfRangeError("taxBasisPoints", d.TaxBasisPoints, 0, maxTaxBasisPoints))
	}
	if d.Discount < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("discount", fmt.Errorf("%d is negative", d.Discount)))
	}
	if d.DeliveryDuration < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("deliveryDuration", fmt.Errorf("%s is negative", d.DeliveryDuration)))
	}
	if d.CreatedAt.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("createdAt"))
	}
	return errors.Join(problems...)
}

// Validate ensures the Order instance was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) Subtotal() int64 {
	return o.subtotal
}

func (o *Order) DeliveryFee() int64 {
	return o.deliveryFee
}

func (o *Order) Tax() int64 {
	return o.tax
}

func (o *Order) Discount() int64 {
	return o.discount
}

func (o *Order) TotalAmount() int64 {
	return o.totalAmount
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) ContactName() string {
	return o.contactName
}

func (o *Order) ContactPhone() string {
	return o.contactPhone
}

func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) PaymentNote() string {
	return o.paymentNote
}

func (o *Order) TransferProof() string {
	return o.transferProof
}

func (o *Order) EstimatedDeliveryTime() time.Time {
	return o.estimatedDelivery
}

func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the optimistic concurrency token the order was loaded with.
// New orders start at 0.
func (o *Order) Version() int {
	return o.version
}

// Items returns a copy of the line-item snapshot.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// DeliveredAt returns nil unless the order is delivered.
func (o *Order) DeliveredAt() *time.Time {
	if o.deliveredAt == nil {
		return nil
	}
	at := *o.deliveredAt
	return &at
}

// History returns a copy of the whole status audit trail, oldest first.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// NewHistoryEntries returns the entries appended since the order was created or restored.
// Repositories persist exactly these rows.
func (o *Order) NewHistoryEntries() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history[o.persistedHistory:]...)
}

// MarkPersisted is called by repositories after a successful write: the order now
// carries version and every history entry counts as stored.
func (o *Order) MarkPersisted(version int) {
	o.version = version
	o.persistedHistory = len(o.history)
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID string) bool {
	return customerID != "" && o.customerID == customerID
}

// ChangeStatus applies a guarded transition. Moving to Cancelled stores note as the
// cancellation reason; moving to Delivered stamps deliveredAt.
//
// Example:
//
//	if err := o.ChangeStatus(order.Ready, "", time.Now()); err != nil {
//	    // *errs.InvalidTransitionError when the edge does not exist
//	}
func (o *Order) ChangeStatus(requested Status, note string, at time.Time) error {
	next, err := o.status.Next(requested)
	if err != nil {
		return err
	}
	o.moveTo(next, note, at)
	if next == Cancelled {
		o.cancellationReason = strings.TrimSpace(note)
	}
	return nil
}

// Cancel is the customer-facing cancellation. It is allowed from Pending and Confirmed only.
func (o *Order) Cancel(reason string, at time.Time) error {
	if !o.status.CanCancel() {
		return errs.NewInvalidTransitionError(o.status.String(), Cancelled.String())
	}
	reason = strings.TrimSpace(reason)
	note := "cancelled"
	if reason != "" {
		note = "cancelled: " + reason
	}
	o.moveTo(Cancelled, note, at)
	o.cancellationReason = reason
	return nil
}

// ForceStatus overwrites the status without consulting the transition graph.
// The history entry records who forced it; deliveredAt and cancellationReason
// still follow the new status.
func (o *Order) ForceStatus(requested Status, actorID, note string, at time.Time) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(actorID) == "" {
		return errs.NewValueIsRequiredError("actorId")
	}
	note = strings.TrimSpace(note)
	entry := fmt.Sprintf("forced by %s (%s -> %s)", actorID, o.status, requested)
	if note != "" {
		entry += ": " + note
	}
	o.moveTo(requested, entry, at)
	if requested == Cancelled {
		o.cancellationReason = note
	}
	return nil
}

// AutoDeliver promotes a non-terminal order straight to Delivered. Eligibility
// is decided by the caller; the aggregate only refuses terminal orders.
func (o *Order) AutoDeliver(at time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError(o.status.String(), Delivered.String())
	}
	o.moveTo(Delivered, "auto-delivered", at)
	return nil
}

// ChangePaymentStatus moves the payment axis. It never touches Status, but it
// appends a history entry (mirroring the current status) so the audit trail
// shows the payment change. The returned flag is true for administrative
// corrections off the pending->paid/failed graph.
func (o *Order) ChangePaymentStatus(requested PaymentStatus, note string, at time.Time) (bool, error) {
	next, correction, err := o.paymentStatus.Next(requested)
	if err != nil {
		return false, err
	}
	previous := o.paymentStatus
	note = strings.TrimSpace(note)
	if note == "" {
		note = "payment " + next.String()
	}
	o.paymentStatus = next
	o.paymentNote = note

	entry := fmt.Sprintf("payment %s -> %s: %s", previous, next, note)
	if correction {
		entry = "correction, " + entry
	}
	o.appendHistory(o.status, entry, at)
	return correction, nil
}

func (o *Order) moveTo(status Status, note string, at time.Time) {
	o.status = status
	o.cancellationReason = ""
	o.deliveredAt = nil
	at = o.appendHistory(status, note, at)
	if status == Delivered {
		o.deliveredAt = &at
	}
}

// appendHistory clamps at so history timestamps never decrease and returns the stored timestamp.
func (o *Order) appendHistory(status Status, note string, at time.Time) time.Time {
	if n := len(o.history); n > 0 && at.Before(o.history[n-1].timestamp) {
		at = o.history[n-1].timestamp
	}
	o.history = append(o.history, HistoryEntry{status: status, timestamp: at, notes: note})
	o.updatedAt = at
	return at
}
