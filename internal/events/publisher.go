package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/avmarkin/checkout-service/internal/config"
	"github.com/avmarkin/checkout-service/internal/entities"

	"github.com/segmentio/kafka-go"
)

// orderPaidMessage - контракт события для downstream-систем (фулфилмент, нотификации)
type orderPaidMessage struct {
	OrderID           string    `json:"order_id"`
	PaymentIntentID   string    `json:"payment_intent_id"`
	CheckoutSessionID string    `json:"checkout_session_id"`
	AmountTotal       int64     `json:"amount_total"`
	PaidAt            time.Time `json:"paid_at"`
}

type Publisher struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewPublisher(logger *slog.Logger, cfg config.Kafka) *Publisher {
	return &Publisher{
		logger: logger.With(slog.String("publisher", "kafka")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

// PublishOrderPaid пишет событие с ключом order_id, чтобы события одного
// заказа попадали в одну партицию. В библиотеке уже есть retry.
func (p *Publisher) PublishOrderPaid(ctx context.Context, orderID string, c entities.PaidConfirmation) error {
	msg := orderPaidMessage{
		OrderID:           orderID,
		PaymentIntentID:   c.PaymentIntentID,
		CheckoutSessionID: c.CheckoutSessionID,
		AmountTotal:       c.AmountTotal,
		PaidAt:            c.PaidAt,
	}

	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order paid event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to write order paid event: %w", err)
	}

	p.logger.DebugContext(ctx, "order paid event published", slog.String("order_id", orderID))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
