package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/internal/stripe"
	"github.com/avmarkin/checkout-service/pkg/trm"
	"github.com/avmarkin/checkout-service/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrderRepo interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)

	// Операции идемпотентны: вставка через ON CONFLICT DO NOTHING,
	// переход в paid - условный UPDATE по статусу
	CreateOrder(ctx context.Context, o entities.Order) error
	MarkOrderPaid(ctx context.Context, orderID string, c entities.PaidConfirmation) (bool, error)
}

type CartRepo interface {
	GetCart(ctx context.Context, sessionID string) ([]entities.CartItem, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type SessionGateway interface {
	CreateCheckoutSession(ctx context.Context, order entities.Order, successURL, cancelURL string) (stripe.CheckoutSession, error)
}

type CheckoutForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"omitempty,e164"`
	Country string `validate:"required"`
	City    string `validate:"required"`
	Address string `validate:"required"`
	ZIP     string `validate:"required"`
}

type checkoutService struct {
	logger    *slog.Logger
	validate  *validator.Validate
	txManager trm.Manager
	orders    OrderRepo
	carts     CartRepo
	gateway   SessionGateway

	publicBaseURL string
}

func NewCheckoutService(
	logger *slog.Logger,
	txManager trm.Manager,
	orders OrderRepo,
	carts CartRepo,
	gateway SessionGateway,
	publicBaseURL string,
) *checkoutService {
	return &checkoutService{
		logger:        logger.With(slog.String("service", "checkout")),
		validate:      validator.New(),
		txManager:     txManager,
		orders:        orders,
		carts:         carts,
		gateway:       gateway,
		publicBaseURL: publicBaseURL,
	}
}

// Checkout превращает корзину сессии в pending-заказ и возвращает URL
// hosted checkout session провайдера. Черновик заказа обязан оказаться в базе
// до сетевого вызова: вебхук, пришедший сколь угодно рано, должен найти заказ.
func (s *checkoutService) Checkout(ctx context.Context, cartSessionID string, form CheckoutForm) (string, error) {
	if err := s.validate.Struct(form); err != nil {
		return "", err
	}

	cart, err := s.carts.GetCart(ctx, cartSessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return "", entities.ErrEmptyCart
	}

	order := entities.Order{
		OrderID:       uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		PaymentStatus: entities.PaymentStatusPending,
		Customer: entities.Customer{
			Name:    form.Name,
			Email:   form.Email,
			Phone:   form.Phone,
			Country: form.Country,
			City:    form.City,
			Address: form.Address,
			ZIP:     form.ZIP,
		},
		Lines: snapshotCart(cart),
	}

	fn := func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			if err := s.orders.CreateOrder(ctx, order); err != nil {
				return fmt.Errorf("failed to save draft order: %w", err)
			}
			if err := s.carts.ClearCart(ctx, cartSessionID); err != nil {
				return fmt.Errorf("failed to clear cart: %w", err)
			}
			return nil
		})
	}

	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn); err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "draft order saved", slog.String("order_id", order.OrderID))

	session, err := s.gateway.CreateCheckoutSession(ctx, order,
		s.callbackURL("/PaymentSuccess", order.OrderID),
		s.callbackURL("/PaymentCancelled", order.OrderID),
	)
	if err != nil {
		// Черновик не откатываем: покупатель может повторить оформление,
		// а сверка идет по метаданным сессии, не по наличию черновика
		s.logger.ErrorContext(ctx, "failed to create checkout session",
			slog.Any("error", err), slog.String("order_id", order.OrderID))
		return "", fmt.Errorf("%w: %w", entities.ErrPaymentInit, err)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("order_id", order.OrderID), slog.String("session_id", session.ID))
	return session.URL, nil
}

func (s *checkoutService) callbackURL(path, orderID string) string {
	return fmt.Sprintf("%s%s?orderId=%s", s.publicBaseURL, path, url.QueryEscape(orderID))
}

func snapshotCart(cart []entities.CartItem) []entities.OrderLine {
	lines := make([]entities.OrderLine, 0, len(cart))
	for _, item := range cart {
		lines = append(lines, entities.OrderLine{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return lines
}
