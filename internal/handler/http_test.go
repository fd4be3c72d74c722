package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/handler"
	mocks "github.com/avmarkin/checkout-service/internal/handler/mocks"
	"github.com/avmarkin/checkout-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testOrderID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func newTestRouter(t *testing.T) (*mocks.MockCheckoutService, *mocks.MockOrderGetter, chi.Router) {
	t.Helper()
	checkout := mocks.NewMockCheckoutService(t)
	orders := mocks.NewMockOrderGetter(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	handler.NewHTTPHandler(logger, checkout, orders).Init(r)
	return checkout, orders, r
}

func checkoutBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(handler.CheckoutRequest{
		Name:    "Ivan Petrov",
		Email:   "ivan@example.com",
		Country: "RU",
		City:    "Moscow",
		Address: "Tverskaya 1",
		ZIP:     "125009",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestHTTPHandler_Checkout(t *testing.T) {
	t.Run("redirects to provider checkout", func(t *testing.T) {
		checkout, _, r := newTestRouter(t)

		checkout.EXPECT().
			Checkout(mock.Anything, "sess-1", mock.Anything).
			Return("https://checkout.stripe.com/c/pay/cs_123", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_123", rec.Header().Get("Location"))
	})

	t.Run("missing cart cookie", func(t *testing.T) {
		_, _, r := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		_, _, r := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString("{not json"))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid form", func(t *testing.T) {
		checkout, _, r := newTestRouter(t)

		verr := validator.New().Struct(service.CheckoutForm{})
		require.Error(t, verr)
		checkout.EXPECT().
			Checkout(mock.Anything, "sess-1", mock.Anything).
			Return("", verr).Once()

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		checkout, _, r := newTestRouter(t)

		checkout.EXPECT().
			Checkout(mock.Anything, "sess-1", mock.Anything).
			Return("", entities.ErrEmptyCart).Once()

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		checkout, _, r := newTestRouter(t)

		checkout.EXPECT().
			Checkout(mock.Anything, "sess-1", mock.Anything).
			Return("", entities.ErrPaymentInit).Once()

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		checkout, _, r := newTestRouter(t)

		checkout.EXPECT().
			Checkout(mock.Anything, "sess-1", mock.Anything).
			Return("", errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t))
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "sess-1"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHTTPHandler_GetOrderByID(t *testing.T) {
	t.Run("returns paid order", func(t *testing.T) {
		_, orders, r := newTestRouter(t)

		paidAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		orders.EXPECT().
			GetOrderByID(mock.Anything, testOrderID).
			Return(entities.Order{
				OrderID:         testOrderID,
				PaymentStatus:   entities.PaymentStatusPaid,
				PaymentIntentID: "pi_123",
				PaidAt:          paidAt,
				PaidAmount:      39.98,
				Lines: []entities.OrderLine{
					{ProductID: "p-1", Name: "Keyboard", Quantity: 2, UnitPrice: 1999},
				},
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/order/"+testOrderID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, testOrderID, got.OrderID)
		assert.Equal(t, "paid", got.PaymentStatus)
		assert.Equal(t, 39.98, got.PaidAmount)
		require.NotNil(t, got.PaidAt)
		assert.True(t, got.PaidAt.Equal(paidAt))
	})

	t.Run("order not found", func(t *testing.T) {
		_, orders, r := newTestRouter(t)

		orders.EXPECT().
			GetOrderByID(mock.Anything, testOrderID).
			Return(entities.Order{}, entities.ErrOrderNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/order/"+testOrderID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid order id", func(t *testing.T) {
		_, _, r := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/order/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		_, orders, r := newTestRouter(t)

		orders.EXPECT().
			GetOrderByID(mock.Anything, testOrderID).
			Return(entities.Order{}, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/order/"+testOrderID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHTTPHandler_Callbacks(t *testing.T) {
	_, _, r := newTestRouter(t)

	for _, path := range []string{"/PaymentSuccess", "/PaymentCancelled"} {
		req := httptest.NewRequest(http.MethodGet, path+"?orderId="+testOrderID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got handler.CallbackResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, testOrderID, got.OrderID)
	}
}
