package repository

import (
	"context"
	"errors"

	"github.com/strukly/strukly-backend/internal/domain"
)

// ErrReceiptNotFound is returned when a receipt does not exist or belongs to
// another user.
var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptRepository defines the interface for receipt persistence.
// Implementations keep the owning user's running totals consistent with the
// stored receipts: every create, update, and delete adjusts total_receipts
// and total_revenue in the same transaction.
type ReceiptRepository interface {
	// Receipt CRUD operations
	CreateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error)
	GetReceiptByID(ctx context.Context, userID, receiptID string) (*domain.Receipt, error)
	UpdateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, userID, receiptID string) error

	// Receipt querying operations
	ListReceipts(ctx context.Context, userID string, limit int, cursor string) (*domain.ReceiptPage, error)
	SearchReceipts(ctx context.Context, userID, term string) ([]domain.Receipt, error)
	ListForStats(ctx context.Context, filter domain.StatsFilter) ([]domain.Receipt, error)
}
