package ordering

import (
	"fmt"
	"testing"
	"time"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEditor_AddItem(t *testing.T) {
	e := NewEditor(sequentialIDs())

	items := e.AddItem(nil, 1, "Latte", price("4.50"))
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.False(t, items[0].IsPaid)

	before := e.AddItem(items, 1, "Latte", price("4.50"))
	after := e.AddItem(before, 1, "Latte", price("4.50"))
	require.Len(t, after, 1, "merging must not grow the sequence")
	assert.Equal(t, 3, after[0].Quantity)
	assert.Equal(t, 2, before[0].Quantity, "input must not be mutated")
	assert.True(t, UnpaidTotal(after).Equal(price("13.50")))

	withCroissant := e.AddItem(after, 2, "Croissant", price("3.00"))
	assert.Len(t, withCroissant, 2)
}

func TestEditor_AddItemSkipsPaidLines(t *testing.T) {
	e := NewEditor(sequentialIDs())
	items := []domain.OrderItem{{ID: "paid", ProductID: 1, Name: "Latte", Price: price("4.50"), Quantity: 2, IsPaid: true}}

	out := e.AddItem(items, 1, "Latte", price("4.50"))

	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Quantity)
	assert.Equal(t, 1, out[1].Quantity)
	assert.False(t, out[1].IsPaid)
}

func TestEditor_AddItemKeepsPriceSnapshot(t *testing.T) {
	e := NewEditor(sequentialIDs())
	items := e.AddItem(nil, 1, "Latte", price("4.50"))

	// price changed on the menu since the line was created
	items = e.AddItem(items, 1, "Latte", price("5.00"))

	assert.True(t, items[0].Price.Equal(price("4.50")))
}

func TestSetQuantity(t *testing.T) {
	items := []domain.OrderItem{
		{ID: "a", Name: "Latte", Price: price("4.50"), Quantity: 2},
		{ID: "b", Name: "Croissant", Price: price("3.00"), Quantity: 1},
	}

	tests := []struct {
		name    string
		itemID  string
		delta   int
		wantLen int
		wantQty map[string]int
	}{
		{name: "increment", itemID: "a", delta: 1, wantLen: 2, wantQty: map[string]int{"a": 3, "b": 1}},
		{name: "decrement to zero removes", itemID: "b", delta: -1, wantLen: 1, wantQty: map[string]int{"a": 2}},
		{name: "floor at zero", itemID: "a", delta: -10, wantLen: 1, wantQty: map[string]int{"b": 1}},
		{name: "unknown id is a no-op", itemID: "zzz", delta: 5, wantLen: 2, wantQty: map[string]int{"a": 2, "b": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := SetQuantity(items, tt.itemID, tt.delta)
			require.Len(t, out, tt.wantLen)
			for _, it := range out {
				assert.Equal(t, tt.wantQty[it.ID], it.Quantity)
			}
			assert.Equal(t, 2, items[0].Quantity, "input must not be mutated")
		})
	}
}

func TestSetQuantity_RepeatedDecrementRemoves(t *testing.T) {
	items := []domain.OrderItem{{ID: "a", Price: price("1"), Quantity: 4}}
	for i := 0; i < 4; i++ {
		items = SetQuantity(items, "a", -1)
		for _, it := range items {
			assert.Greater(t, it.Quantity, 0)
		}
	}
	assert.Empty(t, items)
	assert.ErrorContains(t, ValidateForPayment(items), "no items")
}

func TestSetNote(t *testing.T) {
	items := []domain.OrderItem{{ID: "a", Quantity: 1}}

	out := SetNote(items, "a", "no sugar")
	assert.Equal(t, "no sugar", out[0].Note)
	assert.Empty(t, items[0].Note)

	assert.Equal(t, items, SetNote(items, "missing", "x"))
}

func TestEditor_MergeItems(t *testing.T) {
	e := NewEditor(sequentialIDs())
	orders := []domain.Order{
		{Items: []domain.OrderItem{
			{ID: "x1", ProductID: 1, Price: price("4.50"), Quantity: 2},
			{ID: "x2", ProductID: 2, Price: price("3.00"), Quantity: 1, IsPaid: true},
		}},
		{Items: []domain.OrderItem{
			{ID: "y1", ProductID: 1, Price: price("4.50"), Quantity: 1},
			{ID: "y2", ProductID: 3, Price: price("8.50"), Quantity: 1},
		}},
	}

	merged := e.MergeItems(orders)

	require.Len(t, merged, 2)
	assert.Equal(t, uint64(1), merged[0].ProductID)
	assert.Equal(t, 3, merged[0].Quantity)
	assert.Equal(t, "item-1", merged[0].ID)
	assert.Equal(t, uint64(3), merged[1].ProductID)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}

func TestNewOrders(t *testing.T) {
	now := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)

	dine := NewDineInOrder(7, now)
	require.NotNil(t, dine.TableID)
	assert.Equal(t, uint64(7), *dine.TableID)
	assert.Equal(t, domain.OrderDineIn, dine.Type)
	assert.Equal(t, domain.OrderOpen, dine.Status)
	assert.NotNil(t, dine.Items)
	assert.True(t, dine.PaidAmount.IsZero())

	take := NewTakeawayOrder(now)
	assert.Nil(t, take.TableID)
	assert.Equal(t, domain.OrderTakeaway, take.Type)
	assert.Equal(t, now, take.CreatedAt)
}

func TestTotals(t *testing.T) {
	items := []domain.OrderItem{
		{ID: "a", Price: price("4.50"), Quantity: 2},
		{ID: "b", Price: price("3.00"), Quantity: 1, IsPaid: true},
	}
	assert.True(t, UnpaidTotal(items).Equal(price("9")))
	assert.True(t, GrandTotal(items).Equal(price("12")))
}
