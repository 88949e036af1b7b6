// Package billing splits an order's bill into the part paid now and the part
// left open.
package billing

import (
	"pos-service/internal/domain"
	"pos-service/internal/money"

	"github.com/shopspring/decimal"
)

type Result struct {
	UpdatedItems []domain.OrderItem
	// PayAmount counts only selected lines that were still unpaid, so a line
	// is never charged twice.
	PayAmount decimal.Decimal
	AllPaid   bool
}

// Apply marks the selected lines paid. Ids that match nothing are ignored.
func Apply(items []domain.OrderItem, selectedIDs []string) Result {
	selected := idSet(selectedIDs)
	updated := make([]domain.OrderItem, len(items))
	pay := decimal.Zero
	allPaid := true
	for i, it := range items {
		if _, ok := selected[it.ID]; ok {
			if !it.IsPaid {
				pay = pay.Add(money.LineTotal(it))
			}
			it.IsPaid = true
		}
		if !it.IsPaid {
			allPaid = false
		}
		updated[i] = it
	}
	return Result{UpdatedItems: updated, PayAmount: pay, AllPaid: allPaid}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
