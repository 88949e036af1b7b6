package services

import (
	"fmt"
	"testing"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const (
	TestOrderID = uint64(1)
	TestTableID = uint64(4)
	TestShiftID = uint64(9)
)

var testNow = time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

// CreateCafeOrder is the two-line dine-in order used across tests:
// id1 Latte 4.50 x2, id2 Croissant 3.00 x1.
func CreateCafeOrder() *domain.Order {
	tableID := TestTableID
	return &domain.Order{
		ID:      TestOrderID,
		TableID: &tableID,
		Items: []domain.OrderItem{
			{ID: "id1", ProductID: 1, Name: "Latte", Price: d("4.50"), Quantity: 2},
			{ID: "id2", ProductID: 2, Name: "Croissant", Price: d("3.00"), Quantity: 1},
		},
		Status:      domain.OrderOpen,
		Type:        domain.OrderDineIn,
		TotalAmount: d("12.00"),
		PaidAmount:  decimal.Zero,
		CreatedAt:   testNow,
	}
}

func CreateShift() *domain.Shift {
	return &domain.Shift{
		ID:           TestShiftID,
		ShiftType:    domain.ShiftAfternoon,
		Name:         "Afternoon",
		Date:         "2026-03-14",
		TotalRevenue: decimal.Zero,
	}
}

type serviceMocks struct {
	orders     *mocks.MockOrderRepository
	tables     *mocks.MockTableRepository
	settlement *mocks.MockSettlementRepository
	shifts     *mocks.MockShiftSource
	products   *mocks.MockProductLookup
	publisher  *mocks.MockPublisher
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		orders:     new(mocks.MockOrderRepository),
		tables:     new(mocks.MockTableRepository),
		settlement: new(mocks.MockSettlementRepository),
		shifts:     new(mocks.MockShiftSource),
		products:   new(mocks.MockProductLookup),
		publisher:  new(mocks.MockPublisher),
	}
}

func (m *serviceMocks) service() *OrderService {
	svc := NewOrderService(m.orders, m.tables, m.settlement, m.shifts, m.products, m.publisher)
	svc.SetClock(func() time.Time { return testNow })
	n := 0
	svc.SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	})
	return svc
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.orders.AssertExpectations(t)
	m.tables.AssertExpectations(t)
	m.settlement.AssertExpectations(t)
	m.shifts.AssertExpectations(t)
	m.products.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}
