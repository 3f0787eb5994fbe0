package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrIllegalTransition  = errors.New("illegal transition of order status")
	ErrUnknownOrderStatus = errors.New("unknown order status")
)

type Customer struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
}

type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodMobileMoney PaymentMethod = "mobile-money"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCard, PaymentMethodMobileMoney:
		return m, nil
	default:
		return "", fmt.Errorf("payment method[%s] is not supported", s)
	}
}

type PaymentRequest struct {
	Amount      Money
	PhoneNumber string
}

// PaymentConfirmation is the result of an approved mobile-money push.
type PaymentConfirmation struct {
	TransactionID string
	PhoneNumber   string
	Amount        Money
	Timestamp     time.Time
}

// Payment is either CardPayment or MobileMoneyPayment.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

type CardPayment struct {
	Last4 string
}

func (CardPayment) Method() PaymentMethod { return PaymentMethodCard }
func (CardPayment) isPayment()            {}

type MobileMoneyPayment struct {
	Confirmation PaymentConfirmation
}

func (MobileMoneyPayment) Method() PaymentMethod { return PaymentMethodMobileMoney }
func (MobileMoneyPayment) isPayment()            {}

// OrderDraft is the payload handed to order creation. Items and Total are
// copies taken at submit time.
type OrderDraft struct {
	Customer Customer
	Items    []LineItem
	Total    Money
	Payment  Payment
}

func (d OrderDraft) Validate() error {
	if len(d.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	if d.Payment == nil {
		return fmt.Errorf("order has no payment")
	}
	if mm, ok := d.Payment.(MobileMoneyPayment); ok && mm.Confirmation.TransactionID == "" {
		return fmt.Errorf("mobile-money payment is not confirmed")
	}

	return nil
}

type Order struct {
	ID        string
	Status    OrderStatus
	Customer  Customer
	Items     []LineItem
	Total     Money
	Payment   Payment
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString())
}

// NewOrder materializes a draft into a freshly placed order.
func NewOrder(id string, draft OrderDraft, now time.Time) Order {
	return Order{
		ID:        id,
		Status:    OrderStatusProcessing,
		Customer:  draft.Customer,
		Items:     draft.Items,
		Total:     draft.Total,
		Payment:   draft.Payment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}

	return "", fmt.Errorf("status[%s]: %w", s, ErrUnknownOrderStatus)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
