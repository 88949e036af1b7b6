package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/ordering"
	"pos-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tableRepo struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) repository.TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) FindByID(ctx context.Context, id uint64) (*domain.Table, error) {
	var t domain.Table
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *tableRepo) ListTables(ctx context.Context) ([]domain.Table, error) {
	var out []domain.Table
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tableRepo) ListAreas(ctx context.Context) ([]domain.Area, error) {
	var out []domain.Area
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tableRepo) Activate(ctx context.Context, tableID uint64, newOrder *domain.Order) (*domain.Order, bool, error) {
	var (
		out     *domain.Order
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t domain.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, tableID).Error; err != nil {
			return notFound(err, "table", tableID)
		}

		if t.CurrentOrderID != nil {
			var existing domain.Order
			err := tx.First(&existing, *t.CurrentOrderID).Error
			switch {
			case err == nil && existing.IsOpen():
				out = &existing
				return nil
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
			// dangling or closed reference: attach a fresh order below
		}

		if err := tx.Create(newOrder).Error; err != nil {
			return fmt.Errorf("create order for table %d: %w", tableID, err)
		}
		if err := tx.Model(&t).
			Select("Status", "CurrentOrderID").
			Updates(&domain.Table{Status: domain.TableOccupied, CurrentOrderID: &newOrder.ID}).Error; err != nil {
			return fmt.Errorf("occupy table %d: %w", tableID, err)
		}
		out, created = newOrder, true
		return nil
	})
	if err != nil {
		return nil, false, translate(err)
	}
	return out, created, nil
}

func (r *tableRepo) RequestPayment(ctx context.Context, tableID uint64) (*domain.Table, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.Table{}).
		Where("id = ? AND status = ?", tableID, domain.TableOccupied).
		Update("status", domain.TablePaymentRequested).Error
	if err != nil {
		return nil, err
	}

	t, err := r.FindByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("table %d: %w", tableID, domain.ErrNotFound)
	}
	if t.Status != domain.TablePaymentRequested {
		return nil, domain.Invalid(fmt.Sprintf("table %d has no open order", tableID))
	}
	return t, nil
}

func (r *tableRepo) Release(ctx context.Context, tableID, orderID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Table{}).
		Where("id = ? AND current_order_id = ?", tableID, orderID).
		Updates(map[string]interface{}{
			"status":           domain.TableAvailable,
			"current_order_id": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Merge locks both tables (lowest id first) and their orders, writes the
// combined lines onto the target order, closes the source order and frees
// the source table.
func (r *tableRepo) Merge(ctx context.Context, p repository.MergeParams) (*repository.MergeResult, error) {
	if p.TargetTableID == p.SourceTableID {
		return nil, domain.Invalid("cannot merge a table into itself")
	}

	var res repository.MergeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tables []domain.Table
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []uint64{p.TargetTableID, p.SourceTableID}).
			Order("id").
			Find(&tables).Error; err != nil {
			return err
		}
		byID := make(map[uint64]domain.Table, len(tables))
		for _, t := range tables {
			byID[t.ID] = t
		}
		for _, id := range []uint64{p.TargetTableID, p.SourceTableID} {
			if _, ok := byID[id]; !ok {
				return fmt.Errorf("table %d: %w", id, domain.ErrNotFound)
			}
		}

		target, err := lockOpenOrder(tx, byID[p.TargetTableID])
		if err != nil {
			return err
		}
		source, err := lockOpenOrder(tx, byID[p.SourceTableID])
		if err != nil {
			return err
		}

		combined := p.Combine(*target, *source)
		if err := ordering.ValidateLines(combined); err != nil {
			return err
		}
		if err := ordering.CheckPaidLines(target.Items, combined); err != nil {
			return err
		}

		now := time.Now()
		target.Items = combined
		target.TotalAmount = ordering.UnpaidTotal(combined)
		target.UpdatedAt = now
		if err := tx.Model(target).
			Select("Items", "TotalAmount", "UpdatedAt").
			Updates(target).Error; err != nil {
			return fmt.Errorf("update order %d: %w", target.ID, err)
		}

		source.Items = ordering.PaidLines(source.Items)
		source.TotalAmount = ordering.UnpaidTotal(source.Items)
		source.Status = domain.OrderClosed
		source.UpdatedAt = now
		if err := tx.Model(source).
			Select("Items", "TotalAmount", "Status", "UpdatedAt").
			Updates(source).Error; err != nil {
			return fmt.Errorf("close order %d: %w", source.ID, err)
		}

		if err := tx.Model(&domain.Table{}).
			Where("id = ?", p.SourceTableID).
			Updates(map[string]interface{}{
				"status":           domain.TableAvailable,
				"current_order_id": nil,
			}).Error; err != nil {
			return fmt.Errorf("release table %d: %w", p.SourceTableID, err)
		}

		res = repository.MergeResult{Target: target, Source: source}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func lockOpenOrder(tx *gorm.DB, t domain.Table) (*domain.Order, error) {
	if t.CurrentOrderID == nil {
		return nil, domain.Invalid(fmt.Sprintf("table %d has no open order", t.ID))
	}
	var o domain.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, *t.CurrentOrderID).Error; err != nil {
		return nil, notFound(err, "order", *t.CurrentOrderID)
	}
	if !o.IsOpen() {
		return nil, domain.Invalid(fmt.Sprintf("table %d has no open order", t.ID))
	}
	return &o, nil
}
