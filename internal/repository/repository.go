package repository

import (
	"context"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Finders return nil, nil when the record does not exist.

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListOpen(ctx context.Context) ([]domain.Order, error)
	// ReplaceItems overwrites the whole item sequence of an open order.
	ReplaceItems(ctx context.Context, id uint64, items []domain.OrderItem, total decimal.Decimal) error
}

type SettlementParams struct {
	OrderID   uint64
	ShiftID   uint64
	ItemIDs   []string
	PayAmount decimal.Decimal
}

type SettlementResult struct {
	AllPaid bool
	Posted  decimal.Decimal
	Order   *domain.Order
	Shift   *domain.Shift
}

// SettlementRepository applies a payment to an order and a shift as one
// atomic unit.
type SettlementRepository interface {
	Settle(ctx context.Context, p SettlementParams) (*SettlementResult, error)
}

type TableRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Table, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
	ListAreas(ctx context.Context) ([]domain.Area, error)
	// Activate attaches newOrder to an available table, or returns the order
	// the table already holds. created reports which one happened.
	Activate(ctx context.Context, tableID uint64, newOrder *domain.Order) (order *domain.Order, created bool, err error)
	RequestPayment(ctx context.Context, tableID uint64) (*domain.Table, error)
	// Release frees the table if it still holds orderID.
	Release(ctx context.Context, tableID, orderID uint64) (bool, error)
	// Merge moves the open order of one table onto another and frees the
	// source table.
	Merge(ctx context.Context, p MergeParams) (*MergeResult, error)
}

type MergeParams struct {
	TargetTableID uint64
	SourceTableID uint64
	// Combine builds the target order's new lines from both locked orders.
	Combine func(target, source domain.Order) []domain.OrderItem
}

// MergeResult holds both orders as written. Source is closed and keeps only
// the lines that were already paid on it.
type MergeResult struct {
	Target *domain.Order
	Source *domain.Order
}

type ShiftRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Shift, error)
	FindByWindow(ctx context.Context, date string, typ domain.ShiftType) (*domain.Shift, error)
	// CreateIfAbsent inserts s unless a shift for the same date and type
	// exists, and returns the stored record either way.
	CreateIfAbsent(ctx context.Context, s *domain.Shift) (stored *domain.Shift, created bool, err error)
	List(ctx context.Context) ([]domain.Shift, error)
}

type MenuRepository interface {
	FindProduct(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
