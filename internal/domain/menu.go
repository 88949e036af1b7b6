package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:64;not null"`
	Icon string `json:"icon" gorm:"size:64"`
}

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:128;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CategoryID  uint64          `json:"categoryId" gorm:"index"`
	Description string          `json:"description" gorm:"size:255"`
	Image       string          `json:"image" gorm:"size:255"`
}
