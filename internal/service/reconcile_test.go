package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/service"
	mocks "github.com/avmarkin/checkout-service/internal/service/mocks"
	"github.com/avmarkin/checkout-service/internal/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const orderID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func completedEvent(t *testing.T, metadata map[string]string) stripe.Event {
	t.Helper()
	object, err := json.Marshal(map[string]any{
		"id":             "cs_123",
		"payment_intent": "pi_123",
		"payment_status": "paid",
		"amount_total":   3998,
		"metadata":       metadata,
	})
	require.NoError(t, err)

	var event stripe.Event
	event.ID = "evt_1"
	event.Type = stripe.EventCheckoutSessionCompleted
	event.Data.Object = object
	return event
}

func pendingOrder() entities.Order {
	return entities.Order{
		OrderID:       orderID,
		PaymentStatus: entities.PaymentStatusPending,
		Lines: []entities.OrderLine{
			{ProductID: "p-1", Name: "Keyboard", Quantity: 2, UnitPrice: 1999},
		},
	}
}

type reconciler interface {
	Apply(ctx context.Context, event stripe.Event) (service.Outcome, error)
}

func newReconcileService(t *testing.T) (*mocks.MockOrderRepo, *mocks.MockPaidEventPublisher, *mocks.MockCache, reconciler) {
	orders := mocks.NewMockOrderRepo(t)
	publisher := mocks.NewMockPaidEventPublisher(t)
	cache := mocks.NewMockCache(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewReconcileService(logger, orders, publisher, cache)
	return orders, publisher, cache, svc
}

func TestReconcileService_Apply(t *testing.T) {
	t.Run("unhandled event type is ignored", func(t *testing.T) {
		_, _, _, svc := newReconcileService(t)

		event := completedEvent(t, map[string]string{"order_id": orderID})
		event.Type = "payment_intent.created"

		outcome, err := svc.Apply(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeIgnored, outcome)
	})

	t.Run("missing correlation metadata is ignored", func(t *testing.T) {
		_, _, _, svc := newReconcileService(t)

		outcome, err := svc.Apply(context.Background(), completedEvent(t, nil))
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeIgnored, outcome)
	})

	t.Run("unknown order leaves store untouched", func(t *testing.T) {
		orders, _, _, svc := newReconcileService(t)

		orders.EXPECT().
			GetOrderByID(mock.Anything, orderID).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		outcome, err := svc.Apply(context.Background(), completedEvent(t, map[string]string{"order_id": orderID}))
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeUnknownOrder, outcome)
	})

	t.Run("pending order transitions to paid", func(t *testing.T) {
		orders, publisher, cache, svc := newReconcileService(t)

		orders.EXPECT().
			GetOrderByID(mock.Anything, orderID).
			Return(pendingOrder(), nil).Once()

		var conf entities.PaidConfirmation
		orders.EXPECT().
			MarkOrderPaid(mock.Anything, orderID, mock.Anything).
			Run(func(_ context.Context, _ string, c entities.PaidConfirmation) {
				conf = c
			}).
			Return(true, nil).Once()

		cache.EXPECT().Set(orderID, mock.Anything).Return().Once()
		publisher.EXPECT().PublishOrderPaid(mock.Anything, orderID, mock.Anything).Return(nil).Once()

		outcome, err := svc.Apply(context.Background(), completedEvent(t, map[string]string{"order_id": orderID}))
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeUpdated, outcome)

		assert.Equal(t, "pi_123", conf.PaymentIntentID)
		assert.Equal(t, "cs_123", conf.CheckoutSessionID)
		assert.Equal(t, int64(3998), conf.AmountTotal)
		assert.False(t, conf.PaidAt.IsZero())
	})

	t.Run("replayed confirmation writes exactly once", func(t *testing.T) {
		orders, publisher, cache, svc := newReconcileService(t)
		event := completedEvent(t, map[string]string{"order_id": orderID})

		paid := pendingOrder()
		paid.PaymentStatus = entities.PaymentStatusPaid
		paid.PaymentIntentID = "pi_123"
		paid.CheckoutSessionID = "cs_123"
		paid.PaidAmount = 39.98

		orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(pendingOrder(), nil).Once()
		orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(paid, nil).Once()
		orders.EXPECT().MarkOrderPaid(mock.Anything, orderID, mock.Anything).Return(true, nil).Once()
		cache.EXPECT().Set(orderID, mock.Anything).Return().Once()
		publisher.EXPECT().PublishOrderPaid(mock.Anything, orderID, mock.Anything).Return(nil).Once()

		first, err := svc.Apply(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeUpdated, first)

		second, err := svc.Apply(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeAlreadyPaid, second)
	})

	t.Run("already paid order is not rewritten", func(t *testing.T) {
		orders, _, _, svc := newReconcileService(t)

		paid := pendingOrder()
		paid.PaymentStatus = entities.PaymentStatusPaid
		paid.PaymentIntentID = "pi_123"

		orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(paid, nil).Once()

		outcome, err := svc.Apply(context.Background(), completedEvent(t, map[string]string{"order_id": orderID}))
		require.NoError(t, err)
		assert.Equal(t, service.OutcomeAlreadyPaid, outcome)
	})

	t.Run("storage error is returned for retry", func(t *testing.T) {
		orders, _, _, svc := newReconcileService(t)

		dbErr := errors.New("db down")
		orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(pendingOrder(), nil).Once()
		orders.EXPECT().MarkOrderPaid(mock.Anything, orderID, mock.Anything).Return(false, dbErr).Once()

		_, err := svc.Apply(context.Background(), completedEvent(t, map[string]string{"order_id": orderID}))
		assert.ErrorIs(t, err, dbErr)
	})
}

// Две конкурентные доставки одного подтверждения: ровно один Updated,
// второй исход - AlreadyPaid, двойной записи нет.
func TestReconcileService_ConcurrentDelivery(t *testing.T) {
	orders, publisher, cache, svc := newReconcileService(t)
	event := completedEvent(t, map[string]string{"order_id": orderID})

	orders.EXPECT().GetOrderByID(mock.Anything, orderID).Return(pendingOrder(), nil).Times(2)

	// Условная запись хранилища: выигрывает ровно одна доставка
	var mu sync.Mutex
	written := false
	orders.EXPECT().
		MarkOrderPaid(mock.Anything, orderID, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, _ entities.PaidConfirmation) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			if written {
				return false, nil
			}
			written = true
			return true, nil
		}).Times(2)

	cache.EXPECT().Set(orderID, mock.Anything).Return().Once()
	publisher.EXPECT().PublishOrderPaid(mock.Anything, orderID, mock.Anything).Return(nil).Once()

	outcomes := make(chan service.Outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := svc.Apply(context.Background(), event)
			assert.NoError(t, err)
			outcomes <- outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := make(map[service.Outcome]int)
	for outcome := range outcomes {
		counts[outcome]++
	}
	assert.Equal(t, 1, counts[service.OutcomeUpdated])
	assert.Equal(t, 1, counts[service.OutcomeAlreadyPaid])
}
