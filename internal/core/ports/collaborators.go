package ports

import (
	"context"
	"time"
)

// CartClearer empties a customer's shopping cart after checkout.
type CartClearer interface {
	ClearCart(ctx context.Context, customerID string) error
}

// OrderNumberGenerator issues human-readable order numbers.
type OrderNumberGenerator interface {
	Next(ctx context.Context, now time.Time) (string, error)
}

// Attachment is a binary file sent along a message.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// Message is a transactional notification handed to the mail transport.
type Message struct {
	Kind        string       `json:"kind"`
	OrderNumber string       `json:"orderNumber"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// MessageSender delivers one message. Implementations must honour ctx cancellation.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// Metrics records engine counters.
type Metrics interface {
	OrderCreated(paymentMethod string)
	StatusTransition(to string)
	NotificationFailed(kind string)
	AutoDeliveryRun(outcome string)
}
