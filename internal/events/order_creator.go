package events

import (
	"context"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
	"go.uber.org/zap"
)

type publishingOrderCreator struct {
	next      port.OrderCreator
	publisher port.OrderEventPublisher
	logger    *zap.Logger
}

// PublishingOrderCreator announces every order next creates. A failed
// publication is logged and never fails the order, which is already placed.
func PublishingOrderCreator(next port.OrderCreator, publisher port.OrderEventPublisher, logger *zap.Logger) port.OrderCreator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &publishingOrderCreator{
		next:      next,
		publisher: publisher,
		logger:    logger.Named("events"),
	}
}

func (c *publishingOrderCreator) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	order, err := c.next.CreateOrder(ctx, draft)
	if err != nil {
		return domain.Order{}, err
	}

	if err := c.publisher.PublishOrderPlaced(ctx, order); err != nil {
		c.logger.Warn("order placed event not published", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}
