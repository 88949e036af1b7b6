package mysql

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedTable(t *testing.T, db *gorm.DB, name string) *domain.Table {
	t.Helper()
	area := domain.Area{Name: "Main Floor"}
	require.NoError(t, db.Create(&area).Error)
	tbl := domain.Table{Name: name, AreaID: area.ID, AreaName: area.Name, Status: domain.TableAvailable}
	require.NoError(t, db.Create(&tbl).Error)
	return &tbl
}

// seedCafeOrder stores Latte 4.50 x2 (id1) and Croissant 3.00 x1 (id2).
func seedCafeOrder(t *testing.T, db *gorm.DB) *domain.Order {
	t.Helper()
	o := domain.Order{
		Items: []domain.OrderItem{
			{ID: "id1", ProductID: 1, Name: "Latte", Price: dec("4.50"), Quantity: 2},
			{ID: "id2", ProductID: 2, Name: "Croissant", Price: dec("3.00"), Quantity: 1},
		},
		Status:      domain.OrderOpen,
		Type:        domain.OrderDineIn,
		TotalAmount: dec("12.00"),
		PaidAmount:  decimal.Zero,
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func seedShift(t *testing.T, db *gorm.DB, revenue string) *domain.Shift {
	t.Helper()
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := domain.Shift{
		ShiftType:    domain.ShiftAfternoon,
		Name:         "Afternoon",
		Date:         "2026-10-19",
		StartTime:    start,
		EndTime:      start.Add(6 * time.Hour),
		TotalRevenue: dec(revenue),
	}
	require.NoError(t, db.Create(&s).Error)
	return &s
}
