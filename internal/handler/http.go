package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/service"
	"github.com/avmarkin/checkout-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// cartCookie - cookie с идентификатором серверной корзины покупателя
const cartCookie = "cart_session"

type CheckoutService interface {
	Checkout(ctx context.Context, cartSessionID string, form service.CheckoutForm) (string, error)
}

type OrderGetter interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	checkout CheckoutService
	orders   OrderGetter
}

func NewHTTPHandler(logger *slog.Logger, checkout CheckoutService, orders OrderGetter) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		checkout: checkout,
		orders:   orders,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Post("/checkout", h.Checkout)
	r.Get("/order/{order_id}", h.GetOrderByID)
	r.Get("/PaymentSuccess", h.PaymentSuccess)
	r.Get("/PaymentCancelled", h.PaymentCancelled)
}

// Checkout оформляет заказ из корзины сессии.
// @Summary      Оформить заказ
// @Description  Создает pending-заказ из корзины и редиректит на страницу оплаты провайдера
// @Tags         checkout
// @Accept       json
// @Param        request  body  CheckoutRequest  true  "Контактные данные и адрес доставки"
// @Success      303  "Редирект на hosted checkout провайдера"
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации или пустая корзина"
// @Failure      502  {object}  utils.ErrorResponse "Провайдер платежей недоступен"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /checkout [post]
func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(cartCookie)
	if err != nil || cookie.Value == "" {
		utils.WriteError(w, "cart session missing", http.StatusBadRequest)
		return
	}

	var req CheckoutRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	redirectURL, err := h.checkout.Checkout(ctx, cookie.Value, CheckoutRequestToForm(req))

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		checkoutTotal.WithLabelValues("validation_failed").Inc()
		utils.WriteValidationError(w, err)
		return
	}

	if errors.Is(err, entities.ErrEmptyCart) {
		checkoutTotal.WithLabelValues("validation_failed").Inc()
		utils.WriteError(w, "cart is empty", http.StatusBadRequest)
		return
	}

	if errors.Is(err, entities.ErrPaymentInit) {
		checkoutTotal.WithLabelValues("gateway_failed").Inc()
		utils.WriteError(w, "payment could not be initiated, please retry", http.StatusBadGateway)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "checkout failed", slog.Any("error", err))
		checkoutTotal.WithLabelValues("error").Inc()
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	checkoutTotal.WithLabelValues("redirected").Inc()
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

// GetOrderByID возвращает заказ по ID.
// @Summary      Получить заказ
// @Description  Возвращает заказ и статус его оплаты
// @Tags         orders
// @Param        order_id   path      string  true  "Идентификатор заказа"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ValidationErrorResponse "Ошибка валидации"
// @Failure      404  {object}  utils.ErrorResponse "Заказ не найден"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка сервера"
// @Router       /order/{order_id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required,uuid4"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, orderID)

	if errors.Is(err, entities.ErrOrderNotFound) {
		utils.WriteError(w, "order not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order", slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// PaymentSuccess - страница возврата после оплаты. Чисто информационная:
// подтверждением оплаты является вебхук, а не приход браузера сюда.
// @Summary      Возврат с оплаты
// @Tags         checkout
// @Param        orderId  query  string  true  "Идентификатор заказа"
// @Success      200  {object}  CallbackResponse
// @Router       /PaymentSuccess [get]
func (h *HTTPHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, CallbackResponse{
		OrderID: r.URL.Query().Get("orderId"),
		Message: "thank you, your payment is being processed",
	}, http.StatusOK)
}

// PaymentCancelled - возврат после отмененной оплаты.
// @Summary      Возврат после отмены оплаты
// @Tags         checkout
// @Param        orderId  query  string  true  "Идентификатор заказа"
// @Success      200  {object}  CallbackResponse
// @Router       /PaymentCancelled [get]
func (h *HTTPHandler) PaymentCancelled(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, CallbackResponse{
		OrderID: r.URL.Query().Get("orderId"),
		Message: "payment cancelled, your cart was not charged",
	}, http.StatusOK)
}
