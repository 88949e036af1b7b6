package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderOpen   OrderStatus = "OPEN"
	OrderClosed OrderStatus = "CLOSED"
)

type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeaway OrderType = "TAKEAWAY"
)

// OrderItem is a line of an order. Name and Price are captured when the line
// is created and never follow later product edits.
type OrderItem struct {
	ID        string          `json:"id"`
	ProductID uint64          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	IsPaid    bool            `json:"isPaid"`
}

type Order struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	TableID     *uint64         `json:"tableId" gorm:"index"`
	Items       []OrderItem     `json:"items" gorm:"serializer:json;type:json"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(16);not null;default:'OPEN';index"`
	Type        OrderType       `json:"type" gorm:"type:varchar(16);not null"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	PaidAmount  decimal.Decimal `json:"paidAmount" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (o *Order) IsOpen() bool { return o.Status == OrderOpen }

// FindItem returns the line with the given id, or nil.
func (o *Order) FindItem(id string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}
