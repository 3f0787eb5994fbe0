package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
)

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	ids    []string // insertion order
	now    func() time.Time
}

// NewOrderMemory keeps orders in process memory. Used when no database is configured.
func NewOrderMemory() port.OrderRepository {
	return &memoryOrderRepository{
		orders: make(map[string]domain.Order),
		now:    time.Now,
	}
}

func (r *memoryOrderRepository) CreateOrder(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("draft.Validate: %w", err)
	}

	draft.Items = slices.Clone(draft.Items)
	order := domain.NewOrder(domain.NewOrderID(), draft, r.now().UTC())

	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = order
	r.ids = append(r.ids, order.ID)

	return cloneOrder(order), nil
}

func (r *memoryOrderRepository) GetOrder(_ context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("orderID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}

	return cloneOrder(order), nil
}

func (r *memoryOrderRepository) ListOrders(_ context.Context, filter port.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.Order
	for i := len(r.ids) - 1; i >= 0; i-- {
		order := r.orders[r.ids[i]]
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, cloneOrder(order))
	}

	return orders, nil
}

func (r *memoryOrderRepository) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("orderID is empty")
	}
	status, err := domain.ParseOrderStatus(string(status))
	if err != nil {
		return domain.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}

	if order.Status != status && !order.Status.CanTransitionTo(status) {
		return domain.Order{}, fmt.Errorf("order[%s] %s -> %s: %w", orderID, order.Status, status, domain.ErrIllegalTransition)
	}

	order.Status = status
	order.UpdatedAt = r.now().UTC()
	r.orders[orderID] = order

	return cloneOrder(order), nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}
