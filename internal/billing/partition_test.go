package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	items := cafeOrder()
	items = append(items, items[0])
	items[2].ID = "paid"
	items[2].IsPaid = true

	p := NewPartition(items)
	assert.Len(t, p.Remaining(), 2)
	assert.Empty(t, p.Selected())
	assert.True(t, p.PayAmount().IsZero())

	assert.True(t, p.Select("id2"))
	assert.False(t, p.Select("paid"), "paid lines are not selectable")
	assert.False(t, p.Select("missing"))

	assert.Equal(t, []string{"id2"}, p.SelectedIDs())
	assert.True(t, p.PayAmount().Equal(d("3")))
	assert.True(t, p.RemainingAmount().Equal(d("9")))

	p.SelectAll()
	assert.Equal(t, []string{"id1", "id2"}, p.SelectedIDs())
	assert.Empty(t, p.Remaining())
}

func TestPartition_MatchesSettledState(t *testing.T) {
	p := NewPartition(cafeOrder())
	p.Select("id2")

	res := Apply(cafeOrder(), p.SelectedIDs())
	rebuilt := NewPartition(res.UpdatedItems)

	assert.Equal(t, p.Remaining(), rebuilt.Remaining())
	assert.True(t, res.PayAmount.Equal(p.PayAmount()))
}
