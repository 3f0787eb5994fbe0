package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// KES is the Kenyan shilling, the storefront's default currency.
var KES = currency.MustParseISO("KES")

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func ZeroMoney(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal compares amounts numerically, so 12480 and 12480.00 are equal.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return FormatPrice(m)
}

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount the way the storefront shows prices:
// "Kshs. 12,480" for shillings, "USD 19.99" for anything else.
func FormatPrice(m Money) string {
	label := m.Currency.String()
	if m.Currency == KES {
		label = "Kshs."
	}

	amount := m.Amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	// group the whole part, keep the fraction as decimal digits
	whole := amount.Truncate(0).BigInt()
	digits := whole.String()
	if whole.IsInt64() {
		digits = pricePrinter.Sprint(number.Decimal(whole.Int64()))
	}
	if _, frac, ok := strings.Cut(amount.String(), "."); ok {
		digits += "." + frac
	}

	return fmt.Sprintf("%s %s%s", label, sign, digits)
}
