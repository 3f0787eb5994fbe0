package httpapi

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/beautyshop/internal/cart"
	"github.com/nikolayk812/beautyshop/internal/checkout"
	"github.com/nikolayk812/beautyshop/internal/notify"
)

// session is one shopper: a cart, the notifications waiting for them, and the
// checkout currently open over that cart.
type session struct {
	id    string
	cart  *cart.Store
	inbox *notify.Inbox
	nav   *navigator

	mu          sync.Mutex
	current     *checkout.Orchestrator
	newCheckout func(*session) *checkout.Orchestrator
}

// checkout returns the open checkout, starting a fresh one once the previous
// checkout completed.
func (s *session) checkout() *checkout.Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.State() == checkout.StateCompleted {
		s.current = s.newCheckout(s)
	}
	return s.current
}

// end aborts any pending payment prompt and empties the cart.
func (s *session) end() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil {
		current.CancelPayment()
	}
	s.cart.Clear()
}

type sessions struct {
	mu      sync.Mutex
	byID    map[string]*session
	newFunc func(id string) *session
}

func newSessions(newFunc func(id string) *session) *sessions {
	return &sessions{
		byID:    make(map[string]*session),
		newFunc: newFunc,
	}
}

// resolve returns the session for id, creating a new one under a fresh id
// when id is empty or unknown.
func (ss *sessions) resolve(id string) *session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.byID[id]; ok && id != "" {
		return s
	}

	s := ss.newFunc(uuid.NewString())
	ss.byID[s.id] = s

	return s
}

func (ss *sessions) remove(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.byID, id)
}

// navigator remembers where the client should go next.
type navigator struct {
	mu     sync.Mutex
	target string
}

func (n *navigator) RedirectToCart() {
	n.set("/cart")
}

func (n *navigator) ShowInvoice(orderID string) {
	n.set("/invoice/" + orderID)
}

func (n *navigator) set(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = target
}

// take returns the pending target and forgets it.
func (n *navigator) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	target := n.target
	n.target = ""

	return target
}

type sessionKey struct{}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}
