package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShiftType string

const (
	ShiftMorning   ShiftType = "MORNING"
	ShiftAfternoon ShiftType = "AFTERNOON"
	ShiftEvening   ShiftType = "EVENING"
)

// Shift accumulates revenue for one window of one day. The pair
// (Date, ShiftType) is unique.
type Shift struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	ShiftType    ShiftType       `json:"shiftType" gorm:"type:varchar(16);not null;uniqueIndex:idx_shifts_date_type,priority:2"`
	Name         string          `json:"shiftName" gorm:"size:64"`
	Date         string          `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_shifts_date_type,priority:1"`
	StartTime    time.Time       `json:"startTime" gorm:"not null;index"`
	EndTime      time.Time       `json:"endTime" gorm:"not null"`
	TotalRevenue decimal.Decimal `json:"totalRevenue" gorm:"type:decimal(14,2);not null"`
}
