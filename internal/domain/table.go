package domain

type TableStatus string

const (
	TableAvailable        TableStatus = "AVAILABLE"
	TableOccupied         TableStatus = "OCCUPIED"
	TablePaymentRequested TableStatus = "PAYMENT_REQUESTED"
)

type Area struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:64;not null"`
}

// Table.CurrentOrderID is set exactly when Status is not TableAvailable.
type Table struct {
	ID             uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string      `json:"name" gorm:"size:32;not null"`
	AreaID         uint64      `json:"areaId" gorm:"index"`
	AreaName       string      `json:"area" gorm:"size:64"`
	Status         TableStatus `json:"status" gorm:"type:varchar(24);not null;default:'AVAILABLE'"`
	CurrentOrderID *uint64     `json:"currentOrderId"`
}
