package billing

import (
	"pos-service/internal/domain"
	"pos-service/internal/money"

	"github.com/shopspring/decimal"
)

// Partition is the working set of a split-bill screen: the unpaid lines of an
// order divided into "remaining" and "selected for this payment". It is
// rebuilt from the order's paid flags and never persisted.
type Partition struct {
	unpaid   []domain.OrderItem
	selected map[string]bool
}

func NewPartition(items []domain.OrderItem) *Partition {
	p := &Partition{selected: make(map[string]bool)}
	for _, it := range items {
		if !it.IsPaid {
			p.unpaid = append(p.unpaid, it)
		}
	}
	return p
}

// Select moves an unpaid line to the payment side. It reports false for ids
// that are paid or unknown.
func (p *Partition) Select(id string) bool {
	for _, it := range p.unpaid {
		if it.ID == id {
			p.selected[id] = true
			return true
		}
	}
	return false
}

func (p *Partition) SelectAll() {
	for _, it := range p.unpaid {
		p.selected[it.ID] = true
	}
}

func (p *Partition) Selected() []domain.OrderItem {
	return p.side(true)
}

func (p *Partition) Remaining() []domain.OrderItem {
	return p.side(false)
}

// SelectedIDs keeps the order of the lines in the order.
func (p *Partition) SelectedIDs() []string {
	var ids []string
	for _, it := range p.unpaid {
		if p.selected[it.ID] {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func (p *Partition) PayAmount() decimal.Decimal {
	return money.Subtotal(p.Selected())
}

func (p *Partition) RemainingAmount() decimal.Decimal {
	return money.Subtotal(p.Remaining())
}

func (p *Partition) side(selected bool) []domain.OrderItem {
	out := []domain.OrderItem{}
	for _, it := range p.unpaid {
		if p.selected[it.ID] == selected {
			out = append(out, it)
		}
	}
	return out
}
