package http

import (
	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
)

type ReplaceItemsRequest struct {
	Items []domain.OrderItem `json:"items" binding:"required"`
}

type AddItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
}

type MergeTablesRequest struct {
	SourceTableID uint64 `json:"sourceTableId" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type SetNoteRequest struct {
	Note string `json:"note" binding:"max=255"`
}

type PaymentRequest struct {
	ItemIDs []string         `json:"itemIds"`
	Amount  *decimal.Decimal `json:"amount"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ShiftResponse adds the revenue formatted in the configured currency.
type ShiftResponse struct {
	domain.Shift
	RevenueDisplay string `json:"revenueDisplay"`
}
