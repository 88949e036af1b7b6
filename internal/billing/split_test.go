package billing

import (
	"math/rand"
	"testing"

	"pos-service/internal/domain"
	"pos-service/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cafeOrder() []domain.OrderItem {
	return []domain.OrderItem{
		{ID: "id1", ProductID: 1, Name: "Latte", Price: d("4.50"), Quantity: 2},
		{ID: "id2", ProductID: 7, Name: "Croissant", Price: d("3.00"), Quantity: 1},
	}
}

func TestApply_PartialThenRest(t *testing.T) {
	items := cafeOrder()

	first := Apply(items, []string{"id2"})
	assert.True(t, first.PayAmount.Equal(d("3.00")))
	assert.False(t, first.AllPaid)
	assert.False(t, items[1].IsPaid, "input must not be mutated")
	assert.True(t, money.SubtotalWhere(first.UpdatedItems, unpaid).Equal(d("9.00")))

	second := Apply(first.UpdatedItems, []string{"id1"})
	assert.True(t, second.PayAmount.Equal(d("9.00")))
	assert.True(t, second.AllPaid)
}

func TestApply_RepayIsFree(t *testing.T) {
	first := Apply(cafeOrder(), []string{"id2"})

	again := Apply(first.UpdatedItems, []string{"id2", "id1"})

	assert.True(t, again.PayAmount.Equal(d("9.00")), "already paid line must not be charged again")
	assert.True(t, again.AllPaid)
}

func TestApply_UnknownAndEmptySelection(t *testing.T) {
	res := Apply(cafeOrder(), []string{"nope"})
	assert.True(t, res.PayAmount.IsZero())
	assert.False(t, res.AllPaid)

	res = Apply(cafeOrder(), nil)
	assert.True(t, res.PayAmount.IsZero())
}

func TestApply_MoneyConservation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		var items []domain.OrderItem
		n := rnd.Intn(6) + 1
		for i := 0; i < n; i++ {
			items = append(items, domain.OrderItem{
				ID:       string(rune('a' + i)),
				Price:    decimal.New(int64(rnd.Intn(1000)), -2),
				Quantity: rnd.Intn(4) + 1,
				IsPaid:   rnd.Intn(4) == 0,
			})
		}
		var selected []string
		for _, it := range items {
			if rnd.Intn(2) == 0 {
				selected = append(selected, it.ID)
			}
		}

		before := money.SubtotalWhere(items, unpaid)
		res := Apply(items, selected)
		after := money.SubtotalWhere(res.UpdatedItems, unpaid)

		require.True(t, before.Equal(res.PayAmount.Add(after)), "round %d: %s != %s + %s", round, before, res.PayAmount, after)
	}
}

func unpaid(it domain.OrderItem) bool { return !it.IsPaid }
