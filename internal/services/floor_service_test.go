package services

import (
	"context"
	"errors"
	"testing"

	"pos-service/internal/domain"
	"pos-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFloorService_Overview(t *testing.T) {
	t.Run("collects every part", func(t *testing.T) {
		tables := new(mocks.MockTableRepository)
		orders := new(mocks.MockOrderRepository)
		shifts := new(mocks.MockShiftSource)

		tables.On("ListAreas", mock.Anything).Return([]domain.Area{{ID: 1, Name: "Terrace"}}, nil)
		tables.On("ListTables", mock.Anything).Return([]domain.Table{
			{ID: TestTableID, Name: "T4", AreaID: 1, Status: domain.TableOccupied, CurrentOrderID: ptr(TestOrderID)},
		}, nil)
		orders.On("ListOpen", mock.Anything).Return([]domain.Order{*CreateCafeOrder()}, nil)
		shifts.On("Peek", mock.Anything).Return(CreateShift(), nil)

		view, err := NewFloorService(tables, orders, shifts).Overview(context.Background())

		require.NoError(t, err)
		assert.Len(t, view.Areas, 1)
		assert.Len(t, view.Tables, 1)
		assert.Len(t, view.Orders, 1)
		assert.Equal(t, TestShiftID, view.Shift.ID)
		assert.False(t, view.GeneratedAt.IsZero())
	})

	t.Run("outside shift hours", func(t *testing.T) {
		tables := new(mocks.MockTableRepository)
		orders := new(mocks.MockOrderRepository)
		shifts := new(mocks.MockShiftSource)

		tables.On("ListAreas", mock.Anything).Return([]domain.Area{}, nil)
		tables.On("ListTables", mock.Anything).Return([]domain.Table{}, nil)
		orders.On("ListOpen", mock.Anything).Return([]domain.Order{}, nil)
		shifts.On("Peek", mock.Anything).Return(nil, nil)

		view, err := NewFloorService(tables, orders, shifts).Overview(context.Background())

		require.NoError(t, err)
		assert.Nil(t, view.Shift)
	})

	t.Run("any failure fails the overview", func(t *testing.T) {
		tables := new(mocks.MockTableRepository)
		orders := new(mocks.MockOrderRepository)
		shifts := new(mocks.MockShiftSource)

		tables.On("ListAreas", mock.Anything).Return([]domain.Area{}, nil).Maybe()
		tables.On("ListTables", mock.Anything).Return(nil, errors.New("too many connections"))
		orders.On("ListOpen", mock.Anything).Return([]domain.Order{}, nil).Maybe()
		shifts.On("Peek", mock.Anything).Return(nil, nil).Maybe()

		view, err := NewFloorService(tables, orders, shifts).Overview(context.Background())

		assert.ErrorContains(t, err, "too many connections")
		assert.Nil(t, view)
	})
}
