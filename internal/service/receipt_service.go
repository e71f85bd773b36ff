package service

import (
	"context"
	"fmt"
	"time"

	"github.com/strukly/strukly-backend/internal/domain"
	"github.com/strukly/strukly-backend/internal/draft"
	"github.com/strukly/strukly-backend/internal/imageutil"
	"github.com/strukly/strukly-backend/internal/repository"
	"github.com/strukly/strukly-backend/internal/stats"
)

// ReceiptServiceError represents an error in the receipt service
type ReceiptServiceError struct {
	Op  string
	Err error
}

func (e *ReceiptServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *ReceiptServiceError) Unwrap() error {
	return e.Err
}

// ReceiptExtractor extracts structured receipt data from an image
type ReceiptExtractor interface {
	ExtractReceipt(ctx context.Context, imageData []byte, imageFormat string) (*draft.RawExtraction, error)
}

// ImageUploader stores a receipt image and returns its public URL
type ImageUploader interface {
	UploadImage(imageData []byte, filename string) (string, error)
}

// ScanResult is the outcome of scanning a receipt image: an editable draft
// plus the grand total the extractor read off the receipt. Nothing is
// persisted until the client saves the draft as a receipt.
type ScanResult struct {
	Draft          *draft.Draft
	ExtractedTotal int64
	ImageURL       string
}

// ReceiptService defines the interface for receipt-related business logic
type ReceiptService interface {
	// Scanning
	ScanReceipt(ctx context.Context, imageData []byte, imageFormat, userID string) (*ScanResult, error)

	// CRUD operations
	CreateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error)
	GetReceiptByID(ctx context.Context, userID, receiptID string) (*domain.Receipt, error)
	UpdateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error)
	DeleteReceipt(ctx context.Context, userID, receiptID string) error

	// Query operations
	ListReceipts(ctx context.Context, userID string, limit int, cursor string) (*domain.ReceiptPage, error)
	SearchReceipts(ctx context.Context, userID, term string) ([]domain.Receipt, error)
	GetRevenueStats(ctx context.Context, userID, window, startDate, endDate string) (*domain.RevenueStats, error)
}

// ReceiptServiceImpl implements the ReceiptService interface
type ReceiptServiceImpl struct {
	repository repository.ReceiptRepository
	extractor  ReceiptExtractor
	uploader   ImageUploader
	workerPool chan struct{}
}

// NewReceiptService creates a new ReceiptService. uploader may be nil, in
// which case scanned images are not stored and drafts carry no image URL.
func NewReceiptService(repo repository.ReceiptRepository, extractor ReceiptExtractor, uploader ImageUploader, maxWorkers int) ReceiptService {
	return &ReceiptServiceImpl{
		repository: repo,
		extractor:  extractor,
		uploader:   uploader,
		workerPool: make(chan struct{}, maxWorkers),
	}
}

// ScanReceipt processes an image into an editable draft without persisting
// anything. A single extraction attempt is made; failures surface to the
// caller so the user can retry with a new upload.
func (s *ReceiptServiceImpl) ScanReceipt(ctx context.Context, imageData []byte, imageFormat, userID string) (*ScanResult, error) {
	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		// Worker acquired, continue processing
		defer func() {
			// Release worker back to pool
			<-s.workerPool
		}()
	case <-ctx.Done():
		// Context cancelled while waiting for worker
		return nil, &ReceiptServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	// Downscale before sending to the model; undecodable uploads pass
	// through unchanged and the extractor decides what to do with them
	resized, resizedFormat, err := imageutil.ResizeImage(imageData, imageutil.DefaultConfig())
	if err == nil {
		imageData = resized
		imageFormat = resizedFormat
	}

	var imageURL string
	if s.uploader != nil {
		timestamp := time.Now().UnixNano()
		filename := fmt.Sprintf("receipt_%d.%s", timestamp, imageFormat)
		imageURL, err = s.uploader.UploadImage(imageData, filename)
		if err != nil {
			return nil, &ReceiptServiceError{
				Op:  "upload_image",
				Err: err,
			}
		}
	}

	raw, err := s.extractor.ExtractReceipt(ctx, imageData, imageFormat)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "extract_receipt_data",
			Err: err,
		}
	}

	return &ScanResult{
		Draft:          draft.Normalize(raw),
		ExtractedTotal: raw.TotalAmount,
		ImageURL:       imageURL,
	}, nil
}

// CreateReceipt saves a new receipt
func (s *ReceiptServiceImpl) CreateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	storedReceipt, err := s.repository.CreateReceipt(ctx, receipt)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "create_receipt",
			Err: err,
		}
	}

	return storedReceipt, nil
}

// GetReceiptByID retrieves one of the user's receipts by ID
func (s *ReceiptServiceImpl) GetReceiptByID(ctx context.Context, userID, receiptID string) (*domain.Receipt, error) {
	receipt, err := s.repository.GetReceiptByID(ctx, userID, receiptID)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "get_receipt",
			Err: err,
		}
	}
	return receipt, nil
}

// UpdateReceipt updates an existing receipt
func (s *ReceiptServiceImpl) UpdateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	updatedReceipt, err := s.repository.UpdateReceipt(ctx, receipt)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "update_receipt",
			Err: err,
		}
	}

	return updatedReceipt, nil
}

// DeleteReceipt deletes one of the user's receipts
func (s *ReceiptServiceImpl) DeleteReceipt(ctx context.Context, userID, receiptID string) error {
	err := s.repository.DeleteReceipt(ctx, userID, receiptID)
	if err != nil {
		return &ReceiptServiceError{
			Op:  "delete_receipt",
			Err: err,
		}
	}
	return nil
}

// ListReceipts retrieves one page of the user's receipts
func (s *ReceiptServiceImpl) ListReceipts(ctx context.Context, userID string, limit int, cursor string) (*domain.ReceiptPage, error) {
	page, err := s.repository.ListReceipts(ctx, userID, limit, cursor)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "list_receipts",
			Err: err,
		}
	}
	return page, nil
}

// SearchReceipts finds the user's receipts by store name or item name
func (s *ReceiptServiceImpl) SearchReceipts(ctx context.Context, userID, term string) ([]domain.Receipt, error) {
	receipts, err := s.repository.SearchReceipts(ctx, userID, term)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "search_receipts",
			Err: err,
		}
	}
	return receipts, nil
}

// GetRevenueStats recomputes aggregate revenue figures for the user over a
// named window preset or an explicit startDate/endDate range. The preset wins
// when both are supplied.
func (s *ReceiptServiceImpl) GetRevenueStats(ctx context.Context, userID, window, startDate, endDate string) (*domain.RevenueStats, error) {
	if window != "" {
		var err error
		startDate, endDate, err = stats.Window(window, time.Now())
		if err != nil {
			return nil, &ReceiptServiceError{
				Op:  "resolve_stats_window",
				Err: err,
			}
		}
	}

	receipts, err := s.repository.ListForStats(ctx, domain.StatsFilter{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "list_receipts_for_stats",
			Err: err,
		}
	}

	return stats.Aggregate(receipts), nil
}
