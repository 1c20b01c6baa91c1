package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"

	"github.com/skip2/go-qrcode"
)

const (
	defaultSendTimeout = 5 * time.Second
	qrSize             = 256
)

// OutboxWriter stores messages whose delivery failed.
type OutboxWriter interface {
	Insert(ctx context.Context, msg ports.OutboxMessage) error
}

// Config holds the dispatcher settings read from the environment.
type Config struct {
	AdminEmail  string
	SendTimeout time.Duration
	BankAccount BankAccount
}

// Dispatcher sends transactional messages in reaction to lifecycle events.
//
// Every send runs inside a failure boundary: errors and panics are logged,
// counted and the message is parked in the outbox. Nothing is ever returned
// to the caller, so a failing mail transport cannot undo an order mutation.
//
// Example:
//
//	d := notifications.NewDispatcher(sender, outbox, metrics, logger, cfg)
//	d.OrderCreated(ctx, o)   // confirmation / payment / instructions + admin alert
//	d.OrderDelivered(ctx, o) // delivery confirmation
type Dispatcher struct {
	sender  ports.MessageSender
	outbox  OutboxWriter
	metrics ports.Metrics
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
}

func NewDispatcher(
	sender ports.MessageSender,
	outbox OutboxWriter,
	metrics ports.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &Dispatcher{
		sender:  sender,
		outbox:  outbox,
		metrics: metrics,
		logger:  logger.With("component", "notification-dispatcher"),
		cfg:     cfg,
		now:     time.Now,
	}
}

// CreationMessages builds the message set for a freshly created order.
func (d *Dispatcher) CreationMessages(o *order.Order) []ports.Message {
	var messages []ports.Message
	switch {
	case o.PaymentMethod() == order.PaymentCash:
		messages = append(messages, orderConfirmation(o))
	case o.PaymentMethod() == order.PaymentTransfer && o.PaymentStatus() == order.PaymentPending:
		messages = append(messages, d.withTransferQR(o, transferInstructions(o, d.cfg.BankAccount)))
	default:
		messages = append(messages, paymentReceived(o))
	}
	if d.cfg.AdminEmail != "" {
		messages = append(messages, newOrderAlert(o, d.cfg.AdminEmail))
	}
	return messages
}

// OrderCreated sends the creation-time message set.
func (d *Dispatcher) OrderCreated(ctx context.Context, o *order.Order) {
	for _, msg := range d.CreationMessages(o) {
		d.deliver(ctx, msg)
	}
}

// OrderDelivered sends the delivery confirmation to the customer.
func (d *Dispatcher) OrderDelivered(ctx context.Context, o *order.Order) {
	d.deliver(ctx, orderDelivered(o))
}

// Resend decodes an outbox payload and sends it again. Unlike the lifecycle
// hooks it returns the error, so the relay can count the attempt.
func (d *Dispatcher) Resend(ctx context.Context, payload []byte) error {
	var msg ports.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode outbox notification: %w", err)
	}
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	return d.sender.Send(sendCtx, msg)
}

func (d *Dispatcher) withTransferQR(o *order.Order, msg ports.Message) ports.Message {
	png, err := qrcode.Encode(transferQRPayload(o, d.cfg.BankAccount), qrcode.Medium, qrSize)
	if err != nil {
		d.logger.Warn("failed to render transfer QR code", "order_number", o.Number(), "error", err)
		return msg
	}
	msg.Attachments = append(msg.Attachments, ports.Attachment{
		Filename:    fmt.Sprintf("%s-transfer.png", o.Number()),
		ContentType: "image/png",
		Content:     png,
	})
	return msg
}

func (d *Dispatcher) deliver(ctx context.Context, msg ports.Message) {
	logger := d.logger.With("kind", msg.Kind, "order_number", msg.OrderNumber)
	if msg.To == "" {
		logger.Warn("skipping notification without recipient")
		return
	}

	err := d.send(ctx, msg)
	if err == nil {
		logger.Debug("notification sent")
		return
	}

	logger.Error("failed to send notification", "error", err)
	d.metrics.NotificationFailed(msg.Kind)
	d.park(ctx, msg, err, logger)
}

// send converts a panicking transport into an error.
func (d *Dispatcher) send(ctx context.Context, msg ports.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	return d.sender.Send(sendCtx, msg)
}

func (d *Dispatcher) park(ctx context.Context, msg ports.Message, cause error, logger *slog.Logger) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to encode notification for outbox", "error", err)
		return
	}
	if err = d.outbox.Insert(context.WithoutCancel(ctx), ports.OutboxMessage{
		ID:        kernel.NewUUID(),
		Topic:     ports.OutboxTopicNotification,
		Key:       msg.OrderNumber,
		Payload:   payload,
		LastError: cause.Error(),
		CreatedAt: d.now(),
	}); err != nil {
		logger.Error("failed to store notification in outbox", "error", err)
	}
}
