package ordering

import (
	"fmt"

	"pos-service/internal/domain"
)

// ValidateLines checks every line of a sequence that is about to be stored.
// An empty sequence is fine here.
func ValidateLines(items []domain.OrderItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			return domain.Invalid(fmt.Sprintf("item %q has no id", it.Name))
		}
		if _, dup := seen[it.ID]; dup {
			return domain.Invalid(fmt.Sprintf("item id %q appears twice", it.ID))
		}
		seen[it.ID] = struct{}{}
		if it.Quantity <= 0 {
			return domain.Invalid(fmt.Sprintf("item %q has an invalid quantity", it.Name))
		}
		if it.Price.IsNegative() {
			return domain.Invalid(fmt.Sprintf("item %q has an invalid price", it.Name))
		}
	}
	return nil
}

// ValidateForPayment reports whether an order with these items can be paid.
func ValidateForPayment(items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.Invalid("order has no items")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return domain.Invalid(fmt.Sprintf("item %q has an invalid quantity", it.Name))
		}
		if it.Price.IsNegative() {
			return domain.Invalid(fmt.Sprintf("item %q has an invalid price", it.Name))
		}
	}
	return nil
}

func ValidateSelection(itemIDs []string) error {
	if len(itemIDs) == 0 {
		return domain.Invalid("no items selected for payment")
	}
	return nil
}

// CheckPaidLines compares a proposed line sequence with the stored one. Paid
// lines only change through settlement: each stored paid line must come back
// with the same product, price and quantity (the note may change), and no
// other line may claim to be paid.
//
// A stored paid line that is missing or arrives unpaid means the caller
// edited a pre-payment snapshot; that is reported as a transaction conflict.
func CheckPaidLines(stored, next []domain.OrderItem) error {
	incoming := make(map[string]domain.OrderItem, len(next))
	for _, it := range next {
		incoming[it.ID] = it
	}

	paid := make(map[string]struct{})
	for _, old := range stored {
		if !old.IsPaid {
			continue
		}
		paid[old.ID] = struct{}{}
		it, ok := incoming[old.ID]
		if !ok || !it.IsPaid {
			return fmt.Errorf("%w: paid item %q was changed by a stale edit", domain.ErrTransactionConflict, old.Name)
		}
		if it.ProductID != old.ProductID || it.Quantity != old.Quantity || !it.Price.Equal(old.Price) {
			return domain.Invalid(fmt.Sprintf("item %q is already paid", old.Name))
		}
	}

	for _, it := range next {
		if _, ok := paid[it.ID]; it.IsPaid && !ok {
			return domain.Invalid(fmt.Sprintf("item %q cannot be marked paid outside a payment", it.Name))
		}
	}
	return nil
}
