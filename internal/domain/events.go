package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderOpened       = "order.opened"
	EventOrderItemsUpdated = "order.items_updated"
	EventPaymentSettled    = "payment.settled"
	EventTableReleased     = "table.released"
	EventTablesMerged      = "tables.merged"
	EventShiftOpened       = "shift.opened"
)

type OrderOpenedEvent struct {
	OrderID   uint64    `json:"orderId"`
	TableID   *uint64   `json:"tableId"`
	Type      OrderType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type OrderItemsUpdatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type PaymentSettledEvent struct {
	OrderID   uint64          `json:"orderId"`
	ShiftID   uint64          `json:"shiftId"`
	ItemIDs   []string        `json:"itemIds"`
	Amount    decimal.Decimal `json:"amount"`
	AllPaid   bool            `json:"allPaid"`
	SettledBy string          `json:"settledBy,omitempty"`
	SettledAt time.Time       `json:"settledAt"`
}

type TableReleasedEvent struct {
	TableID uint64 `json:"tableId"`
	OrderID uint64 `json:"orderId"`
}

type TablesMergedEvent struct {
	TargetTableID uint64 `json:"targetTableId"`
	SourceTableID uint64 `json:"sourceTableId"`
	TargetOrderID uint64 `json:"targetOrderId"`
	SourceOrderID uint64 `json:"sourceOrderId"`
}

type ShiftOpenedEvent struct {
	ShiftID   uint64    `json:"shiftId"`
	ShiftType ShiftType `json:"shiftType"`
	Date      string    `json:"date"`
}
