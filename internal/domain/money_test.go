package domain_test

import (
	"testing"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		money domain.Money
		want  string
	}{
		{
			name:  "shillings with grouping",
			money: domain.NewMoney(decimal.NewFromInt(5000), domain.KES),
			want:  "Kshs. 5,000",
		},
		{
			name:  "ten thousand",
			money: domain.NewMoney(decimal.NewFromInt(10000), domain.KES),
			want:  "Kshs. 10,000",
		},
		{
			name:  "below grouping threshold",
			money: domain.NewMoney(decimal.NewFromInt(999), domain.KES),
			want:  "Kshs. 999",
		},
		{
			name:  "fraction is kept up to two digits",
			money: domain.NewMoney(decimal.RequireFromString("12480.5"), domain.KES),
			want:  "Kshs. 12,480.5",
		},
		{
			name:  "other currency uses ISO code",
			money: domain.NewMoney(decimal.RequireFromString("19.99"), currency.USD),
			want:  "USD 19.99",
		},
		{
			name:  "large amount keeps every digit",
			money: domain.NewMoney(decimal.RequireFromString("123456789012345678.25"), domain.KES),
			want:  "Kshs. 123,456,789,012,345,678.25",
		},
		{
			name:  "trailing zero fraction is dropped",
			money: domain.NewMoney(decimal.RequireFromString("12480.00"), domain.KES),
			want:  "Kshs. 12,480",
		},
		{
			name:  "negative amount",
			money: domain.NewMoney(decimal.RequireFromString("-1500.5"), domain.KES),
			want:  "Kshs. -1,500.5",
		},
		{
			name:  "zero",
			money: domain.ZeroMoney(domain.KES),
			want:  "Kshs. 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatPrice(tt.money))
			assert.Equal(t, tt.want, tt.money.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	price := domain.NewMoney(decimal.NewFromInt(5000), domain.KES)

	total := price.MulInt(3)
	assert.True(t, total.Equal(domain.NewMoney(decimal.NewFromInt(15000), domain.KES)))

	sum := total.Add(price)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, domain.KES, sum.Currency)

	assert.False(t, price.Equal(domain.NewMoney(decimal.NewFromInt(5000), currency.USD)))
	assert.True(t, domain.ZeroMoney(domain.KES).IsZero())
}
