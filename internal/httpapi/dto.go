package httpapi

import (
	"time"

	"github.com/nikolayk812/beautyshop/internal/checkout"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	ID    int64           `json:"id" validate:"gt=0"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

type submitRequest struct {
	checkout.Form
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type lineItemDTO struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image,omitempty"`
	UnitPrice  string `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"totalPrice"`
}

type cartResponse struct {
	Items          []lineItemDTO `json:"items"`
	TotalQuantity  int           `json:"totalQuantity"`
	TotalAmount    string        `json:"totalAmount"`
	FormattedTotal string        `json:"formattedTotal"`
	Currency       string        `json:"currency"`
}

type checkoutResponse struct {
	State            string       `json:"state"`
	PaymentMethod    string       `json:"paymentMethod"`
	PaymentConfirmed bool         `json:"paymentConfirmed"`
	Cart             cartResponse `json:"cart"`
	Redirect         string       `json:"redirect,omitempty"`
}

type orderResponse struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	Customer       domain.Customer `json:"customer"`
	Items          []lineItemDTO   `json:"items"`
	Total          string          `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"paymentMethod"`
	CardLast4      string          `json:"cardLast4,omitempty"`
	MpesaPhone     string          `json:"mpesaPhone,omitempty"`
	TransactionID  string          `json:"transactionId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Redirect       string          `json:"redirect,omitempty"`
}

type notificationDTO struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func mapLineItems(items []domain.LineItem) []lineItemDTO {
	dtos := make([]lineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, lineItemDTO{
			ProductID:  int64(item.ProductID),
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  item.UnitPrice.Amount.String(),
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice.Amount.String(),
		})
	}
	return dtos
}

func mapCart(c domain.Cart) cartResponse {
	return cartResponse{
		Items:          mapLineItems(c.Items),
		TotalQuantity:  c.TotalQuantity,
		TotalAmount:    c.TotalAmount.Amount.String(),
		FormattedTotal: domain.FormatPrice(c.TotalAmount),
		Currency:       c.TotalAmount.Currency.String(),
	}
}

func mapOrder(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		Status:         o.Status.String(),
		Customer:       o.Customer,
		Items:          mapLineItems(o.Items),
		Total:          o.Total.Amount.String(),
		FormattedTotal: domain.FormatPrice(o.Total),
		Currency:       o.Total.Currency.String(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	switch p := o.Payment.(type) {
	case domain.CardPayment:
		resp.PaymentMethod = string(p.Method())
		resp.CardLast4 = p.Last4
	case domain.MobileMoneyPayment:
		resp.PaymentMethod = string(p.Method())
		resp.MpesaPhone = p.Confirmation.PhoneNumber
		resp.TransactionID = p.Confirmation.TransactionID
	}

	return resp
}

func mapOrders(orders []domain.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	return resp
}

func mapNotifications(ns []domain.Notification) []notificationDTO {
	dtos := make([]notificationDTO, 0, len(ns))
	for _, n := range ns {
		dtos = append(dtos, notificationDTO{Message: n.Message, Type: string(n.Type)})
	}
	return dtos
}
