package mysql

import (
	"context"
	"errors"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"gorm.io/gorm"
)

type menuRepo struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) repository.MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) FindProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *menuRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *menuRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
