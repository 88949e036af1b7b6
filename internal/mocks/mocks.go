package mocks

import (
	"context"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockSettlementRepository struct {
	mock.Mock
}

type MockTableRepository struct {
	mock.Mock
}

type MockShiftRepository struct {
	mock.Mock
}

type MockMenuRepository struct {
	mock.Mock
}

// MockShiftSource stands in for the shift resolver.
type MockShiftSource struct {
	mock.Mock
}

type MockProductLookup struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

type MockIdentityResolver struct {
	mock.Mock
}

type MockCache struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOpen(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, id uint64, items []domain.OrderItem, total decimal.Decimal) error {
	args := m.Called(ctx, id, items, total)
	return args.Error(0)
}

func (m *MockSettlementRepository) Settle(ctx context.Context, p repository.SettlementParams) (*repository.SettlementResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SettlementResult), args.Error(1)
}

func (m *MockTableRepository) FindByID(ctx context.Context, id uint64) (*domain.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) Merge(ctx context.Context, p repository.MergeParams) (*repository.MergeResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MergeResult), args.Error(1)
}

func (m *MockTableRepository) ListTables(ctx context.Context) ([]domain.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Table), args.Error(1)
}

func (m *MockTableRepository) ListAreas(ctx context.Context) ([]domain.Area, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Area), args.Error(1)
}

func (m *MockTableRepository) Activate(ctx context.Context, tableID uint64, newOrder *domain.Order) (*domain.Order, bool, error) {
	args := m.Called(ctx, tableID, newOrder)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Order), args.Bool(1), args.Error(2)
}

func (m *MockTableRepository) RequestPayment(ctx context.Context, tableID uint64) (*domain.Table, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) Release(ctx context.Context, tableID, orderID uint64) (bool, error) {
	args := m.Called(ctx, tableID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockShiftRepository) FindByID(ctx context.Context, id uint64) (*domain.Shift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) FindByWindow(ctx context.Context, date string, typ domain.ShiftType) (*domain.Shift, error) {
	args := m.Called(ctx, date, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftRepository) CreateIfAbsent(ctx context.Context, s *domain.Shift) (*domain.Shift, bool, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Shift), args.Bool(1), args.Error(2)
}

func (m *MockShiftRepository) List(ctx context.Context) ([]domain.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shift), args.Error(1)
}

func (m *MockMenuRepository) FindProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockMenuRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockMenuRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockNotifier) Notify(ctx context.Context, topic string, payload any) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

func (m *MockIdentityResolver) ResolveUser(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCache) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}


func (m *MockShiftSource) Current(ctx context.Context) (*domain.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftSource) Peek(ctx context.Context) (*domain.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockShiftSource) List(ctx context.Context) ([]domain.Shift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shift), args.Error(1)
}

func (m *MockProductLookup) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
