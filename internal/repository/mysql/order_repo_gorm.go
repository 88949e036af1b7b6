package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/ordering"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		logrus.WithError(result.Error).Error("order create failed")
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListOpen(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.OrderOpen).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceItems stores a new line sequence on an open order. The stored order
// is locked first so paid lines can be checked against what settlement wrote.
func (r *orderRepo) ReplaceItems(ctx context.Context, id uint64, items []domain.OrderItem, total decimal.Decimal) error {
	if items == nil {
		items = []domain.OrderItem{}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stored, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		if !stored.IsOpen() {
			return domain.Invalid(fmt.Sprintf("order %d is closed", id))
		}
		if err := ordering.CheckPaidLines(stored.Items, items); err != nil {
			return err
		}
		return tx.Model(&stored).
			Select("Items", "TotalAmount", "UpdatedAt").
			Updates(&domain.Order{Items: items, TotalAmount: total, UpdatedAt: time.Now()}).Error
	})
	if err != nil {
		err = translate(err)
		if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotFound) {
			logrus.WithField("order_id", id).WithError(err).Warn("replace items rolled back")
		}
		return err
	}
	return nil
}
