package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strukly/strukly-backend/internal/domain"
)

func TestAggregateEmptySet(t *testing.T) {
	s := Aggregate(nil)

	assert.Equal(t, int64(0), s.TotalRevenue)
	assert.Equal(t, 0, s.TotalReceipts)
	assert.Equal(t, int64(0), s.AverageTransaction)
	assert.Empty(t, s.DailyRevenue)
	assert.Empty(t, s.MonthlyRevenue)
	assert.Empty(t, s.CategoryBreakdown)
}

func TestAggregateRollups(t *testing.T) {
	receipts := []domain.Receipt{
		{Date: "2025-03-01", TotalAmount: 50000, Category: "Food"},
		{Date: "2025-03-01", TotalAmount: 30000, Category: "Drink"},
		{Date: "2025-03-02", TotalAmount: 20000},
	}

	s := Aggregate(receipts)

	assert.Equal(t, int64(100000), s.TotalRevenue)
	assert.Equal(t, 3, s.TotalReceipts)
	assert.Equal(t, int64(33333), s.AverageTransaction)
	assert.Equal(t, map[string]int64{
		"2025-03-01": 80000,
		"2025-03-02": 20000,
	}, s.DailyRevenue)
	assert.Equal(t, map[string]int64{"2025-03": 100000}, s.MonthlyRevenue)
	assert.Equal(t, map[string]int64{
		"Food":  50000,
		"Drink": 30000,
	}, s.CategoryBreakdown)
}

func TestAggregateOrderIndependent(t *testing.T) {
	receipts := []domain.Receipt{
		{Date: "2025-01-05", TotalAmount: 1000, Category: "A"},
		{Date: "2025-02-05", TotalAmount: 2000, Category: "B"},
		{Date: "2025-01-05", TotalAmount: 3000},
	}
	reversed := []domain.Receipt{receipts[2], receipts[1], receipts[0]}

	assert.Equal(t, Aggregate(receipts), Aggregate(reversed))
}

func TestAggregateConservation(t *testing.T) {
	receipts := []domain.Receipt{
		{Date: "2024-11-30", TotalAmount: 12500, Category: "Food"},
		{Date: "2024-12-01", TotalAmount: 7300},
		{Date: "2024-12-01", TotalAmount: 200},
		{Date: "2024-12-31", TotalAmount: 99999, Category: "Drink"},
	}

	s := Aggregate(receipts)

	var daily, monthly, byCategory int64
	for _, v := range s.DailyRevenue {
		daily += v
	}
	for _, v := range s.MonthlyRevenue {
		monthly += v
	}
	for _, v := range s.CategoryBreakdown {
		byCategory += v
	}

	assert.Equal(t, s.TotalRevenue, daily)
	assert.Equal(t, s.TotalRevenue, monthly)
	assert.Less(t, byCategory, s.TotalRevenue)
}

func TestAggregateCategorySumEqualsTotalWhenAllCategorized(t *testing.T) {
	receipts := []domain.Receipt{
		{Date: "2025-06-01", TotalAmount: 4000, Category: "Food"},
		{Date: "2025-06-02", TotalAmount: 6000, Category: "Food"},
	}

	s := Aggregate(receipts)

	var byCategory int64
	for _, v := range s.CategoryBreakdown {
		byCategory += v
	}
	assert.Equal(t, s.TotalRevenue, byCategory)
}

func TestAverageTransactionRoundsHalfUp(t *testing.T) {
	receipts := []domain.Receipt{
		{Date: "2025-01-01", TotalAmount: 5},
		{Date: "2025-01-01", TotalAmount: 6},
	}
	// 11 / 2 = 5.5, rounds up to 6
	assert.Equal(t, int64(6), Aggregate(receipts).AverageTransaction)
}

func TestMonthKeyZeroPadsMonth(t *testing.T) {
	s := Aggregate([]domain.Receipt{{Date: "2025-09-07", TotalAmount: 100}})
	_, ok := s.MonthlyRevenue["2025-09"]
	assert.True(t, ok)
}

func TestWindowPresets(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		preset string
		start  string
	}{
		{WindowToday, "2025-03-14"},
		{WindowWeek, "2025-03-07"},
		{WindowMonth, "2025-03-01"},
		{WindowYear, "2025-01-01"},
	}
	for _, tc := range cases {
		start, end, err := Window(tc.preset, now)
		require.NoError(t, err, tc.preset)
		assert.Equal(t, tc.start, start, tc.preset)
		assert.Equal(t, "2025-03-14", end, tc.preset)
	}

	_, _, err := Window("quarter", now)
	assert.Error(t, err)
}
