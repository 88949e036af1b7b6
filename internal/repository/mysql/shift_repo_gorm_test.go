package mysql

import (
	"context"
	"testing"
	"time"

	"pos-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftRepo_CreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShiftRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

	rec := func() *domain.Shift {
		return &domain.Shift{
			ShiftType: domain.ShiftMorning, Name: "Morning", Date: "2026-10-19",
			StartTime: start, EndTime: start.Add(6 * time.Hour), TotalRevenue: decimal.Zero,
		}
	}

	first, created, err := repo.CreateIfAbsent(ctx, rec())
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.CreateIfAbsent(ctx, rec())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Shift{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByWindow(ctx, "2026-10-19", domain.ShiftMorning)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.StartTime.Equal(start))

	none, err := repo.FindByWindow(ctx, "2026-10-19", domain.ShiftEvening)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestShiftRepo_ListMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShiftRepository(db)
	older := seedShift(t, db, "10")
	newer := domain.Shift{
		ShiftType: domain.ShiftEvening, Name: "Evening", Date: "2026-10-19",
		StartTime: older.StartTime.Add(6 * time.Hour), EndTime: older.StartTime.Add(12 * time.Hour),
		TotalRevenue: dec("4"),
	}
	require.NoError(t, db.Create(&newer).Error)

	out, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, newer.ID, out[0].ID)
	assert.Equal(t, older.ID, out[1].ID)

	got, err := repo.FindByID(context.Background(), older.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalRevenue.Equal(dec("10")))
}
