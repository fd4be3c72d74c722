package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avmarkin/checkout-service/internal/entities"
	"github.com/avmarkin/checkout-service/pkg/utils"

	"golang.org/x/sync/singleflight"
)

type orderService struct {
	logger *slog.Logger
	repo   OrderRepo
	cache  Cache
	group  singleflight.Group
}

func NewOrderService(logger *slog.Logger, repo OrderRepo, cache Cache) *orderService {
	return &orderService{
		logger: logger.With(slog.String("service", "order")),
		repo:   repo,
		cache:  cache,
	}
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.ErrorContext(ctx, "failed to unmarshal cached order",
				slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, fmt.Errorf("%w: %w", entities.ErrInvalidOrder, err)
		}
		return order, nil
	}

	// singleflight схлопывает конкурентные промахи кэша по одному заказу
	v, err, _ := s.group.Do(orderID, func() (any, error) {
		var order entities.Order
		fn := func() error {
			var err error
			order, err = s.repo.GetOrderByID(ctx, orderID)
			return err
		}
		cfg := utils.RetryConfig{
			InitialDelay: 100 * time.Millisecond,
			MaxAttempts:  5,
			Multiplier:   2,
		}
		if err := utils.Retry(cfg, fn, entities.ErrOrderNotFound); err != nil {
			return entities.Order{}, err
		}
		return order, nil
	})
	if err != nil {
		return entities.Order{}, err
	}
	order := v.(entities.Order)

	data, err := order.Marshal()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal order",
			slog.String("order_id", orderID), slog.Any("error", err))
		return entities.Order{}, err
	}
	s.cache.Set(orderID, data)
	return order, nil
}
