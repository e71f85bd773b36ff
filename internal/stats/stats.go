// Package stats computes revenue rollups over a user's persisted receipts.
// All figures are recomputed per query from the full matching set; the
// aggregator is window-agnostic and trusts whatever receipt set it is given.
package stats

import (
	"fmt"
	"time"

	"github.com/strukly/strukly-backend/internal/domain"
)

// Window presets accepted by the revenue stats endpoint
const (
	WindowToday = "today"
	WindowWeek  = "week"
	WindowMonth = "month"
	WindowYear  = "year"
)

// Aggregate computes revenue statistics in a single pass over receipts.
// Receipts without a category still count toward the totals and the daily
// and monthly rollups but are excluded from the category breakdown; no
// "Uncategorized" bucket is synthesized.
func Aggregate(receipts []domain.Receipt) *domain.RevenueStats {
	s := &domain.RevenueStats{
		DailyRevenue:      make(map[string]int64),
		MonthlyRevenue:    make(map[string]int64),
		CategoryBreakdown: make(map[string]int64),
	}

	for _, r := range receipts {
		s.TotalRevenue += r.TotalAmount
		s.TotalReceipts++

		s.DailyRevenue[r.Date] += r.TotalAmount
		if month, ok := monthKey(r.Date); ok {
			s.MonthlyRevenue[month] += r.TotalAmount
		}

		if r.Category != "" {
			s.CategoryBreakdown[r.Category] += r.TotalAmount
		}
	}

	if s.TotalReceipts > 0 {
		s.AverageTransaction = roundedDiv(s.TotalRevenue, int64(s.TotalReceipts))
	}

	return s
}

// monthKey derives the "YYYY-MM" rollup key from a calendar-date string.
// Receipts whose date does not parse keep their daily bucket (exact string
// key) but are skipped in the monthly rollup.
func monthKey(date string) (string, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())), true
}

// roundedDiv divides total by count rounding half up to the nearest
// currency unit. Amounts are non-negative.
func roundedDiv(total, count int64) int64 {
	return (total + count/2) / count
}

// Window translates a preset name into an inclusive calendar-date range
// ending at now. The bounds are dates only; a receipt dated exactly on the
// end date is included.
func Window(preset string, now time.Time) (start, end string, err error) {
	end = now.Format("2006-01-02")
	switch preset {
	case WindowToday:
		start = end
	case WindowWeek:
		start = now.AddDate(0, 0, -7).Format("2006-01-02")
	case WindowMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	case WindowYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	default:
		return "", "", fmt.Errorf("invalid window: %s", preset)
	}
	return start, end, nil
}
