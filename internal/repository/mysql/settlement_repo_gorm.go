package mysql

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/billing"
	"pos-service/internal/domain"
	"pos-service/internal/ordering"
	"pos-service/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settlementRepo struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) repository.SettlementRepository {
	return &settlementRepo{db: db}
}

// Settle locks the order and the shift, marks the selected lines paid and
// posts their value to both records in one transaction.
//
// The amount posted is recomputed from the locked order. When it differs from
// p.PayAmount the caller acted on a stale view and nothing is written.
func (r *settlementRepo) Settle(ctx context.Context, p repository.SettlementParams) (*repository.SettlementResult, error) {
	if err := ordering.ValidateSelection(p.ItemIDs); err != nil {
		return nil, err
	}

	var res repository.SettlementResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, p.OrderID).Error; err != nil {
			return notFound(err, "order", p.OrderID)
		}
		var shift domain.Shift
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&shift, p.ShiftID).Error; err != nil {
			return notFound(err, "shift", p.ShiftID)
		}

		applied := billing.Apply(order.Items, p.ItemIDs)
		if !applied.PayAmount.Equal(p.PayAmount) {
			return fmt.Errorf("%w: order %d has %s due for the selected items, got %s",
				domain.ErrTransactionConflict, order.ID, applied.PayAmount, p.PayAmount)
		}

		order.Items = applied.UpdatedItems
		order.PaidAmount = order.PaidAmount.Add(applied.PayAmount)
		order.TotalAmount = ordering.UnpaidTotal(order.Items)
		order.Status = domain.OrderOpen
		if applied.AllPaid {
			order.Status = domain.OrderClosed
		}
		order.UpdatedAt = time.Now()
		if err := tx.Model(&order).
			Select("Items", "PaidAmount", "TotalAmount", "Status", "UpdatedAt").
			Updates(&order).Error; err != nil {
			return fmt.Errorf("update order %d: %w", order.ID, err)
		}

		shift.TotalRevenue = shift.TotalRevenue.Add(applied.PayAmount)
		if err := tx.Model(&shift).Select("TotalRevenue").Updates(&shift).Error; err != nil {
			return fmt.Errorf("update shift %d: %w", shift.ID, err)
		}

		res = repository.SettlementResult{
			AllPaid: applied.AllPaid,
			Posted:  applied.PayAmount,
			Order:   &order,
			Shift:   &shift,
		}
		return nil
	})
	if err != nil {
		err = translate(err)
		logrus.WithFields(logrus.Fields{
			"order_id": p.OrderID,
			"shift_id": p.ShiftID,
		}).WithError(err).Warn("settlement rolled back")
		return nil, err
	}
	return &res, nil
}
