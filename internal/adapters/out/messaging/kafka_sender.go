// Package messaging hands transactional messages to the mail service.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sender needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSender publishes every message as JSON to the mail service topic,
// keyed by order number so one order's messages stay on one partition.
type KafkaSender struct {
	writer MessageWriter
}

func NewKafkaSender(writer MessageWriter) *KafkaSender {
	return &KafkaSender{writer: writer}
}

// NewKafkaWriter builds the writer for brokersCSV, a comma separated broker list.
func NewKafkaWriter(brokersCSV, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(ParseBrokers(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (s *KafkaSender) Send(ctx context.Context, msg ports.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Kind, err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderNumber),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
		},
	})
}
