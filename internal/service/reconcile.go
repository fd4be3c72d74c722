package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/stripe"
)

// Outcome - результат обработки одного верифицированного события.
type Outcome string

const (
	// OutcomeUpdated - заказ переведен pending -> paid
	OutcomeUpdated Outcome = "updated"
	// OutcomeAlreadyPaid - повторное подтверждение, ничего не перезаписано
	OutcomeAlreadyPaid Outcome = "already_paid"
	// OutcomeUnknownOrder - заказ с таким id не существует
	OutcomeUnknownOrder Outcome = "unknown_order"
	// OutcomeIgnored - событие не наше или без корреляции, подтверждаем и пропускаем
	OutcomeIgnored Outcome = "ignored"
)

type PaidEventPublisher interface {
	PublishOrderPaid(ctx context.Context, orderID string, c entities.PaidConfirmation) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type reconcileService struct {
	logger    *slog.Logger
	orders    OrderRepo
	publisher PaidEventPublisher
	cache     Cache
	now       func() time.Time
}

func NewReconcileService(logger *slog.Logger, orders OrderRepo, publisher PaidEventPublisher, cache Cache) *reconcileService {
	return &reconcileService{
		logger:    logger.With(slog.String("service", "reconcile")),
		orders:    orders,
		publisher: publisher,
		cache:     cache,
		now:       time.Now,
	}
}

// Apply применяет событие провайдера к заказу. Операция идемпотентна:
// сколько бы раз ни доставили одно и то же подтверждение, запись в базу
// случится ровно один раз.
func (s *reconcileService) Apply(ctx context.Context, event stripe.Event) (Outcome, error) {
	if event.Type != stripe.EventCheckoutSessionCompleted {
		s.logger.DebugContext(ctx, "event type not handled",
			slog.String("event_id", event.ID), slog.String("type", event.Type))
		return OutcomeIgnored, nil
	}

	session, err := event.CheckoutSession()
	if err != nil {
		s.logger.WarnContext(ctx, "malformed event payload",
			slog.String("event_id", event.ID), slog.Any("error", err))
		return OutcomeIgnored, nil
	}

	orderID := session.Metadata[stripe.MetadataOrderID]
	if orderID == "" {
		s.logger.WarnContext(ctx, "event without order correlation",
			slog.String("event_id", event.ID), slog.String("session_id", session.ID))
		return OutcomeIgnored, nil
	}

	logger := s.logger.With(slog.String("order_id", orderID), slog.String("event_id", event.ID))

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		logger.WarnContext(ctx, "event references unknown order")
		return OutcomeUnknownOrder, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load order: %w", err)
	}

	conf := entities.PaidConfirmation{
		PaymentIntentID:   session.PaymentIntent,
		CheckoutSessionID: session.ID,
		AmountTotal:       session.AmountTotal,
		PaidAt:            s.now().UTC(),
	}

	if order.PaymentStatus == entities.PaymentStatusPaid {
		if order.PaymentIntentID != conf.PaymentIntentID {
			logger.WarnContext(ctx, "duplicate confirmation with different payment intent",
				slog.String("stored", order.PaymentIntentID),
				slog.String("received", conf.PaymentIntentID))
		}
		return OutcomeAlreadyPaid, nil
	}

	updated, err := s.orders.MarkOrderPaid(ctx, orderID, conf)
	if err != nil {
		return "", fmt.Errorf("failed to mark order paid: %w", err)
	}
	if !updated {
		// Условный UPDATE не прошел: конкурентная доставка успела раньше
		logger.InfoContext(ctx, "concurrent confirmation already applied")
		return OutcomeAlreadyPaid, nil
	}

	order.PaymentStatus = entities.PaymentStatusPaid
	order.PaymentIntentID = conf.PaymentIntentID
	order.CheckoutSessionID = conf.CheckoutSessionID
	order.PaidAt = conf.PaidAt
	order.PaidAmount = float64(conf.AmountTotal) / 100

	if data, err := order.Marshal(); err == nil {
		s.cache.Set(orderID, data)
	}

	// Событие для downstream-систем, вебхук из-за него не фейлим
	if err := s.publisher.PublishOrderPaid(ctx, orderID, conf); err != nil {
		logger.ErrorContext(ctx, "failed to publish order paid event", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "order reconciled",
		slog.Int64("amount_total", conf.AmountTotal),
		slog.String("payment_intent_id", conf.PaymentIntentID))
	return OutcomeUpdated, nil
}
