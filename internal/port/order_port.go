package port

import (
	"context"

	"github.com/nikolayk812/beautyshop/internal/domain"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
}

type InvoiceLookup interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

type OrderFilter struct {
	Status domain.OrderStatus
}

type OrderRepository interface {
	OrderCreator
	InvoiceLookup
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}
