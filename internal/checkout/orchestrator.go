package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
	"go.uber.org/zap"
)

type Deps struct {
	Cart      port.CartStore
	Orders    port.OrderCreator
	Payments  port.PaymentConfirmer
	Notifier  port.Notifier
	Navigator port.Navigator
	Logger    *zap.Logger

	// SubmitTimeout bounds order creation. Zero means no bound.
	SubmitTimeout time.Duration
}

// Orchestrator drives one checkout of one shopping session from the form
// to a placed order. At most one payment confirmation or order submission
// is in flight at a time.
type Orchestrator struct {
	cart          port.CartStore
	orders        port.OrderCreator
	payments      port.PaymentConfirmer
	notifier      port.Notifier
	nav           port.Navigator
	logger        *zap.Logger
	submitTimeout time.Duration

	mu               sync.Mutex
	state            State
	method           domain.PaymentMethod
	confirmation     *domain.PaymentConfirmation
	cancelPayment    context.CancelFunc
	paymentCancelled bool
}

func New(d Deps) *Orchestrator {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		cart:          d.Cart,
		orders:        d.Orders,
		payments:      d.Payments,
		notifier:      d.Notifier,
		nav:           d.Navigator,
		logger:        logger.Named("checkout"),
		submitTimeout: d.SubmitTimeout,
		state:         StateCollecting,
		method:        domain.PaymentMethodCard,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) PaymentMethod() domain.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.method
}

func (o *Orchestrator) CachedConfirmation() (domain.PaymentConfirmation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.confirmation == nil {
		return domain.PaymentConfirmation{}, false
	}
	return *o.confirmation, true
}

// Open is the empty-cart guard run when the checkout page is shown. It
// sends the shopper back to the cart and returns false if there is nothing
// to buy.
func (o *Orchestrator) Open() bool {
	if o.cart.Snapshot().IsEmpty() {
		o.redirectToCart()
		return false
	}
	return true
}

func (o *Orchestrator) SelectPaymentMethod(m domain.PaymentMethod) error {
	if _, err := domain.ParsePaymentMethod(string(m)); err != nil {
		return &ValidationError{Field: "paymentMethod", Reason: "is not supported"}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkIdle(); err != nil {
		return err
	}
	o.method = m

	return nil
}

// CancelPayment aborts a pending mobile-money confirmation. It returns false
// when no confirmation is pending.
func (o *Orchestrator) CancelPayment() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingPaymentConfirmation || o.cancelPayment == nil {
		return false
	}

	o.paymentCancelled = true
	o.cancelPayment()

	return true
}

func (o *Orchestrator) Submit(ctx context.Context, form Form) (domain.Order, error) {
	o.mu.Lock()

	if err := o.checkIdle(); err != nil {
		o.mu.Unlock()
		return domain.Order{}, err
	}

	snapshot := o.cart.Snapshot()
	if snapshot.IsEmpty() {
		o.mu.Unlock()
		o.redirectToCart()
		return domain.Order{}, ErrEmptyCart
	}

	if err := validateCustomer(form.Customer); err != nil {
		o.mu.Unlock()
		o.notify(domain.NotificationError, err.Error())
		return domain.Order{}, err
	}

	draft := domain.OrderDraft{
		Customer: form.Customer,
		Items:    snapshot.Items,
		Total:    snapshot.TotalAmount,
	}

	if o.method == domain.PaymentMethodCard {
		card, err := cardPayment(form.CardNumber)
		if err != nil {
			o.mu.Unlock()
			o.notify(domain.NotificationError, err.Error())
			return domain.Order{}, err
		}

		draft.Payment = card
		o.state = StateSubmitting
		o.mu.Unlock()

		return o.submit(ctx, draft)
	}

	phone, err := mpesaPhone(form.MpesaPhone)
	if err != nil {
		o.mu.Unlock()
		o.notify(domain.NotificationError, err.Error())
		return domain.Order{}, err
	}

	if conf := o.confirmation; conf != nil && conf.PhoneNumber == phone && conf.Amount.Equal(snapshot.TotalAmount) {
		o.logger.Info("reusing payment confirmation", zap.String("transaction_id", conf.TransactionID))

		draft.Payment = domain.MobileMoneyPayment{Confirmation: *conf}
		o.state = StateSubmitting
		o.mu.Unlock()

		return o.submit(ctx, draft)
	}

	paymentCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.confirmation = nil
	o.state = StateAwaitingPaymentConfirmation
	o.cancelPayment = cancel
	o.paymentCancelled = false
	o.mu.Unlock()

	return o.confirmAndSubmit(ctx, paymentCtx, draft, phone)
}

// confirmAndSubmit must be entered in StateAwaitingPaymentConfirmation.
func (o *Orchestrator) confirmAndSubmit(ctx, paymentCtx context.Context, draft domain.OrderDraft, phone string) (domain.Order, error) {
	o.notify(domain.NotificationInfo,
		fmt.Sprintf("Payment prompt sent to %s. Please check your phone and enter your PIN.", phone))

	conf, err := o.payments.Confirm(paymentCtx, domain.PaymentRequest{
		Amount:      draft.Total,
		PhoneNumber: phone,
	})

	o.mu.Lock()
	cancelled := o.paymentCancelled
	o.cancelPayment = nil
	o.paymentCancelled = false

	// a cancel the shopper was told about wins over a late approval
	if cancelled || errors.Is(err, context.Canceled) {
		o.state = StateCollecting
		o.mu.Unlock()

		o.logger.Info("payment confirmation cancelled", zap.String("phone", phone), zap.Bool("approved", err == nil))
		o.notify(domain.NotificationInfo, "M-Pesa payment cancelled.")
		return domain.Order{}, ErrPaymentCancelled
	}

	if err != nil {
		o.state = StateCollecting
		o.mu.Unlock()

		o.logger.Warn("payment confirmation failed", zap.String("phone", phone), zap.Error(err))
		o.notify(domain.NotificationError, "M-Pesa payment failed. No order was placed, please try again.")
		return domain.Order{}, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	o.confirmation = &conf
	o.state = StatePaymentConfirmed
	o.logger.Info("payment confirmed", zap.String("transaction_id", conf.TransactionID))

	// the cart may have been edited from another view while the prompt was open
	live := o.cart.Snapshot()
	if live.IsEmpty() {
		o.state = StateCollecting
		o.mu.Unlock()
		o.redirectToCart()
		return domain.Order{}, ErrEmptyCart
	}
	if !live.TotalAmount.Equal(conf.Amount) {
		o.state = StateCollecting
		o.mu.Unlock()
		o.notify(domain.NotificationError, "Your cart changed during payment. Please confirm the payment again.")
		return domain.Order{}, ErrCartChanged
	}

	draft.Items = live.Items
	draft.Payment = domain.MobileMoneyPayment{Confirmation: conf}
	o.state = StateSubmitting
	o.mu.Unlock()

	return o.submit(ctx, draft)
}

// submit must be entered in StateSubmitting. Order creation is not
// cancelled by ctx once started.
func (o *Orchestrator) submit(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	submitCtx := context.WithoutCancel(ctx)
	if o.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(submitCtx, o.submitTimeout)
		defer cancel()
	}

	order, err := o.orders.CreateOrder(submitCtx, draft)
	if err != nil {
		o.mu.Lock()
		o.state = StateCollecting
		o.mu.Unlock()

		o.logger.Error("order creation failed",
			zap.String("payment_method", string(draft.Payment.Method())),
			zap.Stringer("total", draft.Total),
			zap.Error(err))
		o.notify(domain.NotificationError, "Something went wrong. Please try again.")

		return domain.Order{}, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	o.mu.Lock()
	o.state = StateCompleted
	o.confirmation = nil
	o.mu.Unlock()

	o.cart.Clear()

	o.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(draft.Payment.Method())),
		zap.Stringer("total", order.Total))
	o.notify(domain.NotificationSuccess, fmt.Sprintf("Order %s placed successfully.", order.ID))

	if o.nav != nil {
		o.nav.ShowInvoice(order.ID)
	}

	return order, nil
}

// checkIdle must be called with mu held.
func (o *Orchestrator) checkIdle() error {
	switch {
	case o.state == StateCompleted:
		return ErrCompleted
	case o.state.Busy():
		return ErrInProgress
	}
	return nil
}

func (o *Orchestrator) redirectToCart() {
	if o.nav != nil {
		o.nav.RedirectToCart()
	}
}

func (o *Orchestrator) notify(t domain.NotificationType, msg string) {
	if o.notifier != nil {
		o.notifier.Notify(domain.Notification{Message: msg, Type: t})
	}
}
