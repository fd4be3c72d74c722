package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/avmarkin/checkout-service/internal/config"
	"github.com/avmarkin/checkout-service/internal/service"
	"github.com/avmarkin/checkout-service/internal/stripe"
	"github.com/avmarkin/checkout-service/pkg/utils"

	"github.com/go-chi/chi/v5"
)

const (
	signatureHeader = "Stripe-Signature"
	// Сессии провайдера сильно меньше, лимит на случай мусора в эндпоинт
	maxWebhookBody = 64 << 10
)

type WebhookProcessor interface {
	Apply(ctx context.Context, event stripe.Event) (service.Outcome, error)
}

type WebhookHandler struct {
	logger    *slog.Logger
	cfg       config.Stripe
	processor WebhookProcessor
}

func NewWebhookHandler(logger *slog.Logger, cfg config.Stripe, processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger.With(slog.String("handler", "webhook")),
		cfg:       cfg,
		processor: processor,
	}
}

func (h *WebhookHandler) Init(r chi.Router) {
	r.Post("/payments/webhook", h.HandleWebhook)
}

// HandleWebhook принимает события провайдера платежей.
// Подпись считается по сырым байтам тела, поэтому читаем его до любого
// декодирования. 200 отдаем и на benign-исходы: провайдер не должен
// ретраить события, которые мы осознанно пропустили.
// @Summary      Вебхук провайдера платежей
// @Description  Принимает подписанные события и сверяет оплату заказа
// @Tags         payments
// @Accept       json
// @Success      200  {object}  WebhookResponse
// @Failure      400  {object}  utils.ErrorResponse "Невалидная подпись"
// @Failure      500  {object}  utils.ErrorResponse "Внутренняя ошибка, провайдер повторит доставку"
// @Router       /payments/webhook [post]
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read webhook body", slog.Any("error", err))
		webhookRejected.Inc()
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}

	event, err := stripe.ConstructEvent(body, r.Header.Get(signatureHeader), h.cfg.WebhookSecret, h.cfg.Tolerance)
	if err != nil {
		h.logger.WarnContext(ctx, "webhook signature verification failed", slog.Any("error", err))
		webhookRejected.Inc()
		utils.WriteError(w, "invalid signature", http.StatusBadRequest)
		return
	}

	outcome, err := h.processor.Apply(ctx, event)
	if err != nil {
		// 500, чтобы провайдер повторил доставку: сбой может быть временным
		h.logger.ErrorContext(ctx, "failed to process webhook event",
			slog.Any("error", err), slog.String("event_id", event.ID))
		webhookFailed.Inc()
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "webhook event processed",
		slog.String("event_id", event.ID),
		slog.String("type", event.Type),
		slog.String("outcome", string(outcome)))
	webhookOutcomes.WithLabelValues(string(outcome)).Inc()

	utils.WriteJSON(w, WebhookResponse{Received: true}, http.StatusOK)
}
