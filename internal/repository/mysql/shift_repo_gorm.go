package mysql

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) repository.ShiftRepository {
	return &shiftRepo{db: db}
}

func (r *shiftRepo) FindByID(ctx context.Context, id uint64) (*domain.Shift, error) {
	var s domain.Shift
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) FindByWindow(ctx context.Context, date string, typ domain.ShiftType) (*domain.Shift, error) {
	var s domain.Shift
	err := r.db.WithContext(ctx).
		Where("date = ? AND shift_type = ?", date, typ).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// CreateIfAbsent leans on the unique (date, shift_type) index: a concurrent
// insert from another process turns ours into a no-op and we read theirs.
func (r *shiftRepo) CreateIfAbsent(ctx context.Context, s *domain.Shift) (*domain.Shift, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(s)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 && s.ID != 0 {
		return s, true, nil
	}

	stored, err := r.FindByWindow(ctx, s.Date, s.ShiftType)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("shift %s %s vanished after conflicting insert", s.Date, s.ShiftType)
	}
	return stored, false, nil
}

func (r *shiftRepo) List(ctx context.Context) ([]domain.Shift, error) {
	var out []domain.Shift
	if err := r.db.WithContext(ctx).Order("start_time DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
