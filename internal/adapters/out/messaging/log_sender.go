package messaging

import (
	"context"
	"log/slog"

	"ordering/internal/core/ports"
)

// LogSender writes messages to the log instead of sending them. It is used
// when no broker is configured, typically in development.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "log-sender")}
}

func (s *LogSender) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "message",
		"kind", msg.Kind,
		"order_number", msg.OrderNumber,
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}
