package domain

import (
	"time"
)

// ReceiptItem represents one purchased line on a receipt. UnitPrice is in the
// smallest currency unit (whole rupiah); LineTotal is always derived, never stored.
type ReceiptItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// LineTotal returns quantity times unit price for this item.
func (i ReceiptItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Receipt represents a persisted transaction record
type Receipt struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	StoreName     string        `json:"storeName"`
	Date          string        `json:"date"` // calendar date, YYYY-MM-DD
	TotalAmount   int64         `json:"totalAmount"`
	Items         []ReceiptItem `json:"items"`
	Category      string        `json:"category,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RevenueStats holds the aggregate revenue figures for one query window.
// It is recomputed on demand from the matching receipt set and never persisted.
type RevenueStats struct {
	TotalRevenue       int64            `json:"totalRevenue"`
	TotalReceipts      int              `json:"totalReceipts"`
	AverageTransaction int64            `json:"averageTransaction"`
	DailyRevenue       map[string]int64 `json:"dailyRevenue"`
	MonthlyRevenue     map[string]int64 `json:"monthlyRevenue"`
	CategoryBreakdown  map[string]int64 `json:"categoryBreakdown"`
}

// ReceiptPage represents one page of a user's receipts plus the cursor for the next page
type ReceiptPage struct {
	Receipts   []Receipt `json:"receipts"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// StatsFilter restricts a revenue stats query to one user and an optional
// inclusive calendar-date window
type StatsFilter struct {
	UserID    string
	StartDate string
	EndDate   string
}
