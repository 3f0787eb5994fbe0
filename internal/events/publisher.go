package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	OrderPlacedType = "order.placed"
	publishTimeout  = 5 * time.Second
)

// Channel is the part of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type OrderPlaced struct {
	OrderID       string        `json:"orderId"`
	Status        string        `json:"status"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	Zip           string        `json:"zip"`
	Items         []OrderedItem `json:"items"`
	Total         string        `json:"total"`
	Currency      string        `json:"currency"`
	PaymentMethod string        `json:"paymentMethod"`
	TransactionID string        `json:"transactionId,omitempty"`
	PlacedAt      time.Time     `json:"placedAt"`
}

type OrderedItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type publisher struct {
	ch        Channel
	queueName string
	logger    *zap.Logger
}

func NewPublisher(ch Channel, queueName string, logger *zap.Logger) (port.OrderEventPublisher, error) {
	if ch == nil {
		return nil, fmt.Errorf("channel is nil")
	}
	if queueName == "" {
		return nil, fmt.Errorf("queueName is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &publisher{
		ch:        ch,
		queueName: queueName,
		logger:    logger.Named("events"),
	}, nil
}

func (p *publisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	body, err := json.Marshal(newOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key is the queue name
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    order.ID,
			Type:         OrderPlacedType,
			Timestamp:    order.CreatedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("ch.PublishWithContext: %w", err)
	}

	p.logger.Debug("order published", zap.String("order_id", order.ID), zap.String("queue", p.queueName))

	return nil
}

func newOrderPlaced(o domain.Order) OrderPlaced {
	e := OrderPlaced{
		OrderID:       o.ID,
		Status:        o.Status.String(),
		CustomerName:  o.Customer.FirstName + " " + o.Customer.LastName,
		CustomerEmail: o.Customer.Email,
		Address:       o.Customer.Address,
		City:          o.Customer.City,
		Zip:           o.Customer.Zip,
		Total:         o.Total.Amount.StringFixed(2),
		Currency:      o.Total.Currency.String(),
		PlacedAt:      o.CreatedAt,
	}

	if o.Payment != nil {
		e.PaymentMethod = string(o.Payment.Method())
	}
	if mm, ok := o.Payment.(domain.MobileMoneyPayment); ok {
		e.TransactionID = mm.Confirmation.TransactionID
	}

	for _, item := range o.Items {
		e.Items = append(e.Items, OrderedItem{
			ProductID: int64(item.ProductID),
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}

	return e
}
