package repository

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type orderRow struct {
	ID            string
	Status        string
	Customer      domain.Customer
	Items         []itemRow
	TotalAmount   string
	TotalCurrency string
	PaymentMethod string
	CardLast4     *string
	MpesaPhone    *string
	TransactionID *string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// itemRow is one element of the items jsonb column. Prices share the order currency.
type itemRow struct {
	ProductID  int64           `json:"productId"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func mapOrderToRow(o domain.Order) (orderRow, error) {
	row := orderRow{
		ID:            o.ID,
		Status:        string(o.Status),
		Customer:      o.Customer,
		TotalAmount:   o.Total.Amount.String(),
		TotalCurrency: o.Total.Currency.String(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	for _, item := range o.Items {
		if item.UnitPrice.Currency != o.Total.Currency {
			return orderRow{}, fmt.Errorf("item[%d] currency[%s] does not match order currency[%s]",
				item.ProductID, item.UnitPrice.Currency, o.Total.Currency)
		}

		row.Items = append(row.Items, itemRow{
			ProductID:  int64(item.ProductID),
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  item.UnitPrice.Amount,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice.Amount,
		})
	}

	switch p := o.Payment.(type) {
	case domain.CardPayment:
		row.PaymentMethod = string(domain.PaymentMethodCard)
		row.CardLast4 = &p.Last4
	case domain.MobileMoneyPayment:
		row.PaymentMethod = string(domain.PaymentMethodMobileMoney)
		row.MpesaPhone = &p.Confirmation.PhoneNumber
		row.TransactionID = &p.Confirmation.TransactionID
		paidAt := p.Confirmation.Timestamp
		row.PaidAt = &paidAt
	default:
		return orderRow{}, fmt.Errorf("payment[%T] is not supported", o.Payment)
	}

	return row, nil
}

func scanOrder(r pgx.Row) (domain.Order, error) {
	var row orderRow

	err := r.Scan(&row.ID, &row.Status, &row.Customer, &row.Items, &row.TotalAmount, &row.TotalCurrency,
		&row.PaymentMethod, &row.CardLast4, &row.MpesaPhone, &row.TransactionID, &row.PaidAt,
		&row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := mapRowToDomain(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapRowToDomain: %w", err)
	}

	return order, nil
}

func mapRowToDomain(row orderRow) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(row.TotalCurrency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.TotalCurrency, err)
	}

	total, err := decimal.NewFromString(row.TotalAmount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("total[%s] is not valid: %w", row.TotalAmount, err)
	}

	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:        row.ID,
		Status:    status,
		Customer:  row.Customer,
		Total:     domain.NewMoney(total, parsedCurrency),
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	for _, item := range row.Items {
		order.Items = append(order.Items, domain.LineItem{
			ProductID:  domain.ProductID(item.ProductID),
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  domain.NewMoney(item.UnitPrice, parsedCurrency),
			Quantity:   item.Quantity,
			TotalPrice: domain.NewMoney(item.TotalPrice, parsedCurrency),
		})
	}

	method, err := domain.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	switch method {
	case domain.PaymentMethodCard:
		order.Payment = domain.CardPayment{Last4: deref(row.CardLast4)}
	case domain.PaymentMethodMobileMoney:
		conf := domain.PaymentConfirmation{
			TransactionID: deref(row.TransactionID),
			PhoneNumber:   deref(row.MpesaPhone),
			Amount:        order.Total,
		}
		if row.PaidAt != nil {
			conf.Timestamp = row.PaidAt.UTC()
		}
		order.Payment = domain.MobileMoneyPayment{Confirmation: conf}
	}

	return order, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
