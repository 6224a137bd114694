package service

import (
	"context"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
)

// OrderService records storefront orders. The idempotency store and the event
// publisher are optional; a nil value disables the feature.
type OrderService struct {
	orderRepo   *repository.OrderRepository
	idempotency IdempotencyStore
	publisher   EventPublisher
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo *repository.OrderRepository, idempotency IdempotencyStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		idempotency: idempotency,
		publisher:   publisher,
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	return orders, nil
}

// CreateOrder stores the order and returns its id. A non-empty idempotentKey
// that was already used yields ErrDuplicateIdempotentKey.
func (s *OrderService) CreateOrder(ctx context.Context, order *entity.Order, idempotentKey string) (int, error) {
	reserved := false
	if s.idempotency != nil && idempotentKey != "" {
		ok, err := s.idempotency.Reserve(ctx, idempotentKey)
		if err != nil {
			logger.Error().Err(err).Msgf("Error validating idempotent key %s", idempotentKey)
			return 0, err
		}
		if !ok {
			logger.Warn().Msgf("Idempotent key %s already used", idempotentKey)
			return 0, ErrDuplicateIdempotentKey
		}
		reserved = true
	}

	id, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		if reserved {
			if rerr := s.idempotency.Release(ctx, idempotentKey); rerr != nil {
				logger.Error().Err(rerr).Msgf("Error releasing idempotent key %s", idempotentKey)
			}
		}
		return 0, err
	}

	s.publish(ctx, id, OrderEventCreated)
	return id, nil
}

// UpdateStatus sets the order status. Missing orders are not reported.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) error {
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		logger.Error().Err(err).Msgf("Error updating order %d", id)
		return err
	}

	s.publish(ctx, id, OrderEventUpdated)
	return nil
}

// publish never fails the request: the order row is already committed.
func (s *OrderService) publish(ctx context.Context, id int, event string) {
	if s.publisher == nil {
		return
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error loading order %d for event", id)
		return
	}
	if order == nil {
		return
	}

	if err := s.publisher.PublishOrderEvent(ctx, order, event); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order %s event for order %d", event, id)
	}
}
