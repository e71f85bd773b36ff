package repository

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strukly/strukly-backend/internal/domain"
)

// PostgresReceiptRepository implements ReceiptRepository interface using PostgreSQL
type PostgresReceiptRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReceiptRepository creates a new PostgreSQL receipt repository
func NewPostgresReceiptRepository(db *pgxpool.Pool) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{
		db: db,
	}
}

// CreateReceipt saves a new receipt and its items, and bumps the owner's
// running totals in the same transaction
func (r *PostgresReceiptRepository) CreateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	// Insert receipt
	var receiptID string
	err = tx.QueryRow(ctx, `
		INSERT INTO receipts (user_id, store_name, date, total_amount, category, payment_method, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, receipt.UserID, receipt.StoreName, receipt.Date, receipt.TotalAmount,
		receipt.Category, receipt.PaymentMethod, receipt.ImageURL).Scan(
		&receiptID, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert receipt: %w", err)
	}

	receipt.ID = receiptID

	// Insert receipt items
	for i := range receipt.Items {
		item := &receipt.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO receipt_items (receipt_id, name, qty, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, receiptID, item.Name, item.Quantity, item.UnitPrice).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	// Bump the owner's running totals
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET total_receipts = total_receipts + 1,
		    total_revenue = total_revenue + $1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, receipt.TotalAmount, receipt.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user totals: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// GetReceiptByID retrieves one of the user's receipts by its ID
func (r *PostgresReceiptRepository) GetReceiptByID(ctx context.Context, userID, receiptID string) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, store_name, date, total_amount, category, payment_method, image_url, created_at, updated_at
		FROM receipts
		WHERE id = $1 AND user_id = $2
	`, receiptID, userID).Scan(
		&receipt.ID, &receipt.UserID, &receipt.StoreName, &receipt.Date, &receipt.TotalAmount,
		&receipt.Category, &receipt.PaymentMethod, &receipt.ImageURL, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, receiptID)
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	// Query receipt items
	rows, err := r.db.Query(ctx, `
		SELECT id, name, qty, unit_price
		FROM receipt_items
		WHERE receipt_id = $1
		ORDER BY id
	`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	receipt.Items = []domain.ReceiptItem{}
	for rows.Next() {
		var item domain.ReceiptItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipt items: %w", err)
	}

	return &receipt, nil
}

// UpdateReceipt replaces a receipt's fields and item list, applying the signed
// total difference to the owner's running revenue in the same transaction
func (r *PostgresReceiptRepository) UpdateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	// Lock the row and read the previous total for the revenue delta
	var previousTotal int64
	err = tx.QueryRow(ctx, `
		SELECT total_amount FROM receipts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, receipt.ID, receipt.UserID).Scan(&previousTotal)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, receipt.ID)
		}
		return nil, fmt.Errorf("failed to read receipt total: %w", err)
	}

	// Update receipt
	err = tx.QueryRow(ctx, `
		UPDATE receipts
		SET store_name = $1, date = $2, total_amount = $3, category = $4,
		    payment_method = $5, image_url = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING created_at, updated_at
	`, receipt.StoreName, receipt.Date, receipt.TotalAmount, receipt.Category,
		receipt.PaymentMethod, receipt.ImageURL, receipt.ID).Scan(&receipt.CreatedAt, &receipt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	// Delete existing items
	_, err = tx.Exec(ctx, `DELETE FROM receipt_items WHERE receipt_id = $1`, receipt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete receipt items: %w", err)
	}

	// Insert updated items
	for i := range receipt.Items {
		item := &receipt.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO receipt_items (receipt_id, name, qty, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, receipt.ID, item.Name, item.Quantity, item.UnitPrice).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	// Apply the signed difference so the running revenue stays consistent
	if delta := receipt.TotalAmount - previousTotal; delta != 0 {
		_, err = tx.Exec(ctx, `
			UPDATE users
			SET total_revenue = total_revenue + $1,
			    updated_at = CURRENT_TIMESTAMP
			WHERE id = $2
		`, delta, receipt.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to update user totals: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

// DeleteReceipt removes one of the user's receipts and decrements the owner's
// running totals in the same transaction
func (r *PostgresReceiptRepository) DeleteReceipt(ctx context.Context, userID, receiptID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	var total int64
	err = tx.QueryRow(ctx, `
		SELECT total_amount FROM receipts
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, receiptID, userID).Scan(&total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrReceiptNotFound, receiptID)
		}
		return fmt.Errorf("failed to read receipt total: %w", err)
	}

	// Delete receipt (cascade will delete items)
	_, err = tx.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET total_receipts = total_receipts - 1,
		    total_revenue = total_revenue - $1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, total, userID)
	if err != nil {
		return fmt.Errorf("failed to update user totals: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListReceipts retrieves one page of the user's receipts, newest first, using
// keyset pagination on (created_at, id)
func (r *PostgresReceiptRepository) ListReceipts(ctx context.Context, userID string, limit int, cursor string) (*domain.ReceiptPage, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, user_id, store_name, date, total_amount, category, payment_method, image_url, created_at, updated_at
		FROM receipts
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if cursor != "" {
		cursorTime, cursorID, err := decodeCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursorTime, cursorID)
	}

	// Fetch one extra row to know whether another page exists
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		var receipt domain.Receipt
		if err := rows.Scan(
			&receipt.ID, &receipt.UserID, &receipt.StoreName, &receipt.Date, &receipt.TotalAmount,
			&receipt.Category, &receipt.PaymentMethod, &receipt.ImageURL, &receipt.CreatedAt, &receipt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipt.Items = []domain.ReceiptItem{}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	page := &domain.ReceiptPage{Receipts: receipts}
	if len(receipts) > limit {
		page.Receipts = receipts[:limit]
		last := page.Receipts[limit-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	if err := r.attachItems(ctx, page.Receipts); err != nil {
		return nil, err
	}

	return page, nil
}

// SearchReceipts returns the user's receipts whose store name or any item name
// matches the term, newest first
func (r *PostgresReceiptRepository) SearchReceipts(ctx context.Context, userID, term string) ([]domain.Receipt, error) {
	pattern := "%" + term + "%" // Case-insensitive partial match

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, store_name, date, total_amount, category, payment_method, image_url, created_at, updated_at
		FROM receipts r
		WHERE user_id = $1
		  AND (store_name ILIKE $2 OR EXISTS (
			SELECT 1 FROM receipt_items i
			WHERE i.receipt_id = r.id AND i.name ILIKE $2
		  ))
		ORDER BY created_at DESC, id DESC
	`, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search receipts: %w", err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		var receipt domain.Receipt
		if err := rows.Scan(
			&receipt.ID, &receipt.UserID, &receipt.StoreName, &receipt.Date, &receipt.TotalAmount,
			&receipt.Category, &receipt.PaymentMethod, &receipt.ImageURL, &receipt.CreatedAt, &receipt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipt.Items = []domain.ReceiptItem{}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	if err := r.attachItems(ctx, receipts); err != nil {
		return nil, err
	}

	return receipts, nil
}

// ListForStats returns the user's receipts within the filter's inclusive date
// window. Items are not loaded; aggregation only needs date, total, and
// category. Dates are stored as YYYY-MM-DD text so string comparison matches
// calendar order.
func (r *PostgresReceiptRepository) ListForStats(ctx context.Context, filter domain.StatsFilter) ([]domain.Receipt, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}
	argCount := 2

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCount))
		args = append(args, filter.StartDate)
		argCount++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCount))
		args = append(args, filter.EndDate)
		argCount++
	}

	query := fmt.Sprintf(`
		SELECT id, date, total_amount, category
		FROM receipts
		WHERE %s
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts for stats: %w", err)
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		var receipt domain.Receipt
		if err := rows.Scan(&receipt.ID, &receipt.Date, &receipt.TotalAmount, &receipt.Category); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	return receipts, nil
}

// attachItems loads items for all receipts in a single query.
// This is more efficient than querying items for each receipt separately.
func (r *PostgresReceiptRepository) attachItems(ctx context.Context, receipts []domain.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	receiptMap := make(map[string]*domain.Receipt, len(receipts))
	receiptIDs := make([]string, 0, len(receipts))
	for i := range receipts {
		receiptMap[receipts[i].ID] = &receipts[i]
		receiptIDs = append(receiptIDs, receipts[i].ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT receipt_id, id, name, qty, unit_price
		FROM receipt_items
		WHERE receipt_id = ANY($1)
		ORDER BY id
	`, receiptIDs)
	if err != nil {
		return fmt.Errorf("failed to query receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var receiptID string
		var item domain.ReceiptItem
		if err := rows.Scan(&receiptID, &item.ID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan receipt item: %w", err)
		}
		if receipt, ok := receiptMap[receiptID]; ok {
			receipt.Items = append(receipt.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating receipt items: %w", err)
	}

	return nil
}

// encodeCursor packs a page boundary into an opaque URL-safe token
func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("failed to decode cursor: %w", err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("failed to parse cursor timestamp: %w", err)
	}

	return createdAt, parts[1], nil
}
