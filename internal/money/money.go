// Package money holds the arithmetic shared by the order editor, the bill
// splitter and the settlement transaction.
package money

import (
	"strings"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
)

func LineTotal(item domain.OrderItem) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal is exact: decimal addition does not depend on item order.
func Subtotal(items []domain.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it))
	}
	return sum
}

// SubtotalWhere sums the lines accepted by keep.
func SubtotalWhere(items []domain.OrderItem, keep func(domain.OrderItem) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if keep(it) {
			sum = sum.Add(LineTotal(it))
		}
	}
	return sum
}

type Currency struct {
	Code   string
	Places int32
}

var (
	USD = Currency{Code: "USD", Places: 2}
	VND = Currency{Code: "VND", Places: 0}
)

// ParseCurrency falls back to USD for unknown codes.
func ParseCurrency(code string) Currency {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "VND":
		return VND
	default:
		return USD
	}
}

// Normalize truncates amount to the smallest unit of the currency.
func (c Currency) Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(c.Places)
}

// NormalizePrices truncates the price of every unpaid line to the currency
// unit. Paid lines are returned as they are.
func (c Currency) NormalizePrices(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, it := range items {
		if !it.IsPaid {
			it.Price = c.Normalize(it.Price)
		}
		out[i] = it
	}
	return out
}

// Format renders amount for receipts and reports.
func Format(amount decimal.Decimal, c Currency) string {
	amount = c.Normalize(amount)
	if c.Code == VND.Code {
		return groupThousands(amount.StringFixed(0), ".") + " ₫"
	}
	s := amount.StringFixed(c.Places)
	if amount.IsNegative() {
		return "-$" + strings.TrimPrefix(s, "-")
	}
	return "$" + s
}

func groupThousands(digits, sep string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
