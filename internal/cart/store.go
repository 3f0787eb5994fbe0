package cart

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
	"golang.org/x/text/currency"
)

// Store owns the cart of one shopping session. Every mutation recomputes
// the totals by walking all items, readers only ever get copies.
type Store struct {
	mu       sync.RWMutex
	currency currency.Unit
	items    []domain.LineItem
	totalQty int
	total    domain.Money
	notifier port.Notifier
}

func New(unit currency.Unit, notifier port.Notifier) *Store {
	return &Store{
		currency: unit,
		total:    domain.ZeroMoney(unit),
		notifier: notifier,
	}
}

func (s *Store) AddItem(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Price.Currency != s.currency {
		return fmt.Errorf("product[%d] currency[%s] does not match cart currency[%s]", p.ID, p.Price.Currency, s.currency)
	}

	s.mu.Lock()
	if idx := s.indexOf(p.ID); idx >= 0 {
		s.items[idx] = s.items[idx].WithQuantity(s.items[idx].Quantity + 1)
	} else {
		s.items = append(s.items, domain.NewLineItem(p))
	}
	s.recompute()
	s.mu.Unlock()

	s.notify(domain.Notification{
		Message: fmt.Sprintf("%s added to cart", p.Name),
		Type:    domain.NotificationSuccess,
	})

	return nil
}

// RemoveOneUnit takes one unit of the product out of the cart and drops the
// line once nothing is left. Unknown products are ignored.
func (s *Store) RemoveOneUnit(id domain.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	if qty := s.items[idx].Quantity - 1; qty > 0 {
		s.items[idx] = s.items[idx].WithQuantity(qty)
	} else {
		s.items = slices.Delete(s.items, idx, idx+1)
	}
	s.recompute()
}

func (s *Store) DeleteItem(id domain.ProductID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	s.recompute()
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.recompute()
}

func (s *Store) Snapshot() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Cart{
		Items:         slices.Clone(s.items),
		TotalQuantity: s.totalQty,
		TotalAmount:   s.total,
	}
}

func (s *Store) Currency() currency.Unit {
	return s.currency
}

func (s *Store) indexOf(id domain.ProductID) int {
	return slices.IndexFunc(s.items, func(i domain.LineItem) bool { return i.ProductID == id })
}

// recompute must be called with mu held.
func (s *Store) recompute() {
	qty := 0
	total := domain.ZeroMoney(s.currency)
	for _, item := range s.items {
		qty += item.Quantity
		total = total.Add(item.TotalPrice)
	}

	s.totalQty = qty
	s.total = total
}

func (s *Store) notify(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
