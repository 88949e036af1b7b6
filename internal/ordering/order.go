package ordering

import (
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/money"

	"github.com/shopspring/decimal"
)

func NewDineInOrder(tableID uint64, now time.Time) *domain.Order {
	o := newOrder(domain.OrderDineIn, now)
	o.TableID = &tableID
	return o
}

func NewTakeawayOrder(now time.Time) *domain.Order {
	return newOrder(domain.OrderTakeaway, now)
}

func newOrder(typ domain.OrderType, now time.Time) *domain.Order {
	return &domain.Order{
		Items:       []domain.OrderItem{},
		Status:      domain.OrderOpen,
		Type:        typ,
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
		CreatedAt:   now,
	}
}

// UnpaidTotal is the value stored as an order's totalAmount.
func UnpaidTotal(items []domain.OrderItem) decimal.Decimal {
	return money.SubtotalWhere(items, func(it domain.OrderItem) bool { return !it.IsPaid })
}

// GrandTotal includes lines that are already paid.
func GrandTotal(items []domain.OrderItem) decimal.Decimal {
	return money.Subtotal(items)
}

// PaidLines returns the lines already settled, in order.
func PaidLines(items []domain.OrderItem) []domain.OrderItem {
	out := []domain.OrderItem{}
	for _, it := range items {
		if it.IsPaid {
			out = append(out, it)
		}
	}
	return out
}
