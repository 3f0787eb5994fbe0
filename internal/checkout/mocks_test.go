package checkout_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/beautyshop/internal/domain"
)

// OrderCreatorMock records drafts and answers with err or a placed order.
type OrderCreatorMock struct {
	mu     sync.Mutex
	drafts []domain.OrderDraft
	err    error
}

func (m *OrderCreatorMock) CreateOrder(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drafts = append(m.drafts, draft)
	if m.err != nil {
		return domain.Order{}, m.err
	}

	return domain.NewOrder(fmt.Sprintf("ORD-TEST-%d", len(m.drafts)), draft, time.Now()), nil
}

func (m *OrderCreatorMock) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *OrderCreatorMock) Drafts() []domain.OrderDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OrderDraft(nil), m.drafts...)
}

// PaymentConfirmerMock answers immediately unless gate is set, in which case
// it signals started and waits for a value on gate or for ctx to end.
// With ignoreCtx it waits for gate only, like a service that approves a
// request it was already processing.
type PaymentConfirmerMock struct {
	mu       sync.Mutex
	requests []domain.PaymentRequest
	err      error

	started   chan struct{}
	gate      chan error
	ignoreCtx bool
}

func (m *PaymentConfirmerMock) Confirm(ctx context.Context, req domain.PaymentRequest) (domain.PaymentConfirmation, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	err := m.err
	m.mu.Unlock()

	if m.gate != nil {
		m.started <- struct{}{}
		if m.ignoreCtx {
			err = <-m.gate
		} else {
			select {
			case <-ctx.Done():
				return domain.PaymentConfirmation{}, ctx.Err()
			case err = <-m.gate:
			}
		}
	}

	if err != nil {
		return domain.PaymentConfirmation{}, err
	}

	return domain.PaymentConfirmation{
		TransactionID: "MPX1700000000000",
		PhoneNumber:   req.PhoneNumber,
		Amount:        req.Amount,
		Timestamp:     time.Unix(1700000000, 0).UTC(),
	}, nil
}

func (m *PaymentConfirmerMock) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *PaymentConfirmerMock) Requests() []domain.PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PaymentRequest(nil), m.requests...)
}

func newGatedPaymentConfirmer() *PaymentConfirmerMock {
	return &PaymentConfirmerMock{
		started: make(chan struct{}, 1),
		gate:    make(chan error, 1),
	}
}

type NotifierMock struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (m *NotifierMock) Notify(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *NotifierMock) Last() domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return domain.Notification{}
	}
	return m.sent[len(m.sent)-1]
}

type NavigatorMock struct {
	mu        sync.Mutex
	redirects int
	invoices  []string
}

func (m *NavigatorMock) RedirectToCart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects++
}

func (m *NavigatorMock) ShowInvoice(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, orderID)
}
