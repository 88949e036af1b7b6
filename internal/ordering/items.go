// Package ordering edits the line items of an order. Every function returns
// a new slice and leaves its input untouched.
package ordering

import (
	"pos-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IDGenerator produces line item ids before the order is persisted.
type IDGenerator func() string

// NewItemID is the default IDGenerator.
func NewItemID() string { return uuid.NewString() }

type Editor struct {
	newID IDGenerator
}

func NewEditor(gen IDGenerator) *Editor {
	if gen == nil {
		gen = NewItemID
	}
	return &Editor{newID: gen}
}

// AddItem bumps the quantity of the unpaid line for productID, or appends a
// new line. Paid lines are never merged into.
func (e *Editor) AddItem(items []domain.OrderItem, productID uint64, name string, price decimal.Decimal) []domain.OrderItem {
	out := clone(items)
	for i := range out {
		if out[i].ProductID == productID && !out[i].IsPaid {
			out[i].Quantity++
			return out
		}
	}
	return append(out, domain.OrderItem{
		ID:        e.newID(),
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  1,
	})
}

// SetQuantity adds delta to the line's quantity, floored at zero. A line that
// reaches zero is dropped. Unknown ids leave the items unchanged.
func SetQuantity(items []domain.OrderItem, itemID string, delta int) []domain.OrderItem {
	if indexOf(items, itemID) < 0 {
		return items
	}
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if it.ID == itemID {
			it.Quantity += delta
			if it.Quantity < 0 {
				it.Quantity = 0
			}
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

func SetNote(items []domain.OrderItem, itemID, note string) []domain.OrderItem {
	i := indexOf(items, itemID)
	if i < 0 {
		return items
	}
	out := clone(items)
	out[i].Note = note
	return out
}

// MergeItems folds the unpaid lines of several orders into one sequence,
// merging by product. Merged lines get fresh ids.
func (e *Editor) MergeItems(orders []domain.Order) []domain.OrderItem {
	var merged []domain.OrderItem
	byProduct := make(map[uint64]int)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.IsPaid {
				continue
			}
			if i, ok := byProduct[it.ProductID]; ok {
				merged[i].Quantity += it.Quantity
				continue
			}
			it.ID = e.newID()
			byProduct[it.ProductID] = len(merged)
			merged = append(merged, it)
		}
	}
	return merged
}

func indexOf(items []domain.OrderItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []domain.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	return out
}
