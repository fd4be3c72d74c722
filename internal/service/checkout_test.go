package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/service"
	mocks "github.com/avmarkin/checkout-service/internal/service/mocks"
	"github.com/avmarkin/checkout-service/internal/stripe"
	txMocks "github.com/avmarkin/checkout-service/pkg/trm/mocks"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const publicBaseURL = "http://shop.example"

func validForm() service.CheckoutForm {
	return service.CheckoutForm{
		Name:    "Ivan Petrov",
		Email:   "ivan@example.com",
		Country: "RU",
		City:    "Moscow",
		Address: "Tverskaya 1",
		ZIP:     "125009",
	}
}

func validCart() []entities.CartItem {
	return []entities.CartItem{
		{ProductID: "p-1", Name: "Keyboard", Quantity: 2, UnitPrice: 1999},
	}
}

func TestCheckoutService_Checkout(t *testing.T) {
	gatewayErr := errors.New("connection refused")

	testCases := []struct {
		name         string
		form         service.CheckoutForm
		mockBehavior func(orders *mocks.MockOrderRepo, carts *mocks.MockCartRepo, gateway *mocks.MockSessionGateway, tx *txMocks.MockManager)
		wantURL      string
		wantErr      error
		wantValidErr bool
	}{
		{
			name: "success",
			form: validForm(),
			mockBehavior: func(orders *mocks.MockOrderRepo, carts *mocks.MockCartRepo, gateway *mocks.MockSessionGateway, tx *txMocks.MockManager) {
				passthroughTx(tx)
				carts.EXPECT().GetCart(mock.Anything, "sess-1").Return(validCart(), nil).Once()
				orders.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(nil).Once()
				carts.EXPECT().ClearCart(mock.Anything, "sess-1").Return(nil).Once()
				gateway.EXPECT().
					CreateCheckoutSession(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(stripe.CheckoutSession{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil).Once()
			},
			wantURL: "https://pay.example/cs_123",
		},
		{
			name: "empty cart: no order created, no gateway call",
			form: validForm(),
			mockBehavior: func(_ *mocks.MockOrderRepo, carts *mocks.MockCartRepo, _ *mocks.MockSessionGateway, _ *txMocks.MockManager) {
				carts.EXPECT().GetCart(mock.Anything, "sess-1").Return([]entities.CartItem{}, nil).Once()
			},
			wantErr: entities.ErrEmptyCart,
		},
		{
			name:         "invalid form: nothing is touched",
			form:         service.CheckoutForm{Name: "Ivan"},
			mockBehavior: func(_ *mocks.MockOrderRepo, _ *mocks.MockCartRepo, _ *mocks.MockSessionGateway, _ *txMocks.MockManager) {},
			wantValidErr: true,
		},
		{
			name: "gateway failure keeps draft order",
			form: validForm(),
			mockBehavior: func(orders *mocks.MockOrderRepo, carts *mocks.MockCartRepo, gateway *mocks.MockSessionGateway, tx *txMocks.MockManager) {
				passthroughTx(tx)
				carts.EXPECT().GetCart(mock.Anything, "sess-1").Return(validCart(), nil).Once()
				orders.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(nil).Once()
				carts.EXPECT().ClearCart(mock.Anything, "sess-1").Return(nil).Once()
				gateway.EXPECT().
					CreateCheckoutSession(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(stripe.CheckoutSession{}, gatewayErr).Once()
			},
			wantErr: entities.ErrPaymentInit,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orders := mocks.NewMockOrderRepo(t)
			carts := mocks.NewMockCartRepo(t)
			gateway := mocks.NewMockSessionGateway(t)
			tx := txMocks.NewMockManager(t)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			tc.mockBehavior(orders, carts, gateway, tx)

			svc := service.NewCheckoutService(logger, tx, orders, carts, gateway, publicBaseURL)

			url, err := svc.Checkout(context.Background(), "sess-1", tc.form)

			if tc.wantValidErr {
				var ve validator.ValidationErrors
				assert.ErrorAs(t, err, &ve)
				return
			}
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantURL, url)
		})
	}
}

func TestCheckoutService_DraftBeforeGateway(t *testing.T) {
	orders := mocks.NewMockOrderRepo(t)
	carts := mocks.NewMockCartRepo(t)
	gateway := mocks.NewMockSessionGateway(t)
	tx := txMocks.NewMockManager(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	passthroughTx(tx)

	var draft entities.Order
	draftSaved := false

	carts.EXPECT().GetCart(mock.Anything, "sess-1").Return(validCart(), nil).Once()
	carts.EXPECT().ClearCart(mock.Anything, "sess-1").Return(nil).Once()

	orders.EXPECT().
		CreateOrder(mock.Anything, mock.Anything).
		Run(func(_ context.Context, o entities.Order) {
			draft = o
			draftSaved = true
		}).
		Return(nil).Once()

	gateway.EXPECT().
		CreateCheckoutSession(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, order entities.Order, successURL, cancelURL string) {
			// к моменту сетевого вызова черновик обязан быть в базе
			require.True(t, draftSaved)
			assert.Equal(t, draft.OrderID, order.OrderID)
			assert.Equal(t, entities.PaymentStatusPending, order.PaymentStatus)
			assert.Equal(t, publicBaseURL+"/PaymentSuccess?orderId="+order.OrderID, successURL)
			assert.Equal(t, publicBaseURL+"/PaymentCancelled?orderId="+order.OrderID, cancelURL)
		}).
		Return(stripe.CheckoutSession{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil).Once()

	svc := service.NewCheckoutService(logger, tx, orders, carts, gateway, publicBaseURL)

	url, err := svc.Checkout(context.Background(), "sess-1", validForm())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_123", url)

	// снапшот корзины попал в заказ как есть
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, int64(1999), draft.Lines[0].UnitPrice)
	assert.Equal(t, 2, draft.Lines[0].Quantity)
	assert.NotEmpty(t, draft.OrderID)
}

func passthroughTx(tx *txMocks.MockManager) {
	tx.EXPECT().
		Do(mock.Anything, mock.Anything).
		RunAndReturn(
			func(ctx context.Context, cb func(ctx context.Context) error) error {
				return cb(ctx)
			})
}
