package mysql

import (
	"fmt"

	"pos-service/internal/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables backing the repositories.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Area{}, &domain.Table{}, &domain.Category{}, &domain.Product{},
		&domain.Order{}, &domain.Shift{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
