package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strukly/strukly-backend/internal/domain"
	"github.com/strukly/strukly-backend/internal/draft"
)

type fakeReceiptRepo struct {
	created     []*domain.Receipt
	statsFilter domain.StatsFilter
	statsResult []domain.Receipt
	err         error
}

func (f *fakeReceiptRepo) CreateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, receipt)
	receipt.ID = "r-1"
	return receipt, nil
}

func (f *fakeReceiptRepo) GetReceiptByID(ctx context.Context, userID, receiptID string) (*domain.Receipt, error) {
	return nil, f.err
}

func (f *fakeReceiptRepo) UpdateReceipt(ctx context.Context, receipt *domain.Receipt) (*domain.Receipt, error) {
	return receipt, f.err
}

func (f *fakeReceiptRepo) DeleteReceipt(ctx context.Context, userID, receiptID string) error {
	return f.err
}

func (f *fakeReceiptRepo) ListReceipts(ctx context.Context, userID string, limit int, cursor string) (*domain.ReceiptPage, error) {
	return &domain.ReceiptPage{Receipts: []domain.Receipt{}}, f.err
}

func (f *fakeReceiptRepo) SearchReceipts(ctx context.Context, userID, term string) ([]domain.Receipt, error) {
	return nil, f.err
}

func (f *fakeReceiptRepo) ListForStats(ctx context.Context, filter domain.StatsFilter) ([]domain.Receipt, error) {
	f.statsFilter = filter
	return f.statsResult, f.err
}

type fakeExtractor struct {
	raw *draft.RawExtraction
	err error
}

func (f *fakeExtractor) ExtractReceipt(ctx context.Context, imageData []byte, imageFormat string) (*draft.RawExtraction, error) {
	return f.raw, f.err
}

type fakeUploader struct {
	url      string
	uploaded bool
}

func (f *fakeUploader) UploadImage(imageData []byte, filename string) (string, error) {
	f.uploaded = true
	return f.url, nil
}

func TestScanReceiptReturnsDraftWithoutPersisting(t *testing.T) {
	repo := &fakeReceiptRepo{}
	extractor := &fakeExtractor{
		raw: &draft.RawExtraction{
			Merchant:    "Warung Tegal",
			TotalAmount: 30000,
			Items: []draft.RawItem{
				{Name: "nasi goreng", Quantity: 2, UnitPrice: 15000},
			},
		},
	}
	svc := NewReceiptService(repo, extractor, nil, 4)

	result, err := svc.ScanReceipt(context.Background(), []byte("img"), "jpeg", "u-1")
	require.NoError(t, err)

	assert.Equal(t, "Warung Tegal", result.Draft.Merchant)
	assert.Equal(t, int64(30000), result.ExtractedTotal)
	require.Len(t, result.Draft.Items, 1)
	assert.Equal(t, "Nasi Goreng", result.Draft.Items[0].Name)
	assert.Empty(t, repo.created, "scan must not persist the draft")
	assert.Empty(t, result.ImageURL)
}

func TestScanReceiptUploadsImageWhenConfigured(t *testing.T) {
	repo := &fakeReceiptRepo{}
	extractor := &fakeExtractor{raw: &draft.RawExtraction{Merchant: "Toko"}}
	uploader := &fakeUploader{url: "https://storage.example.com/receipt_1.jpeg"}
	svc := NewReceiptService(repo, extractor, uploader, 4)

	result, err := svc.ScanReceipt(context.Background(), []byte("img"), "jpeg", "u-1")
	require.NoError(t, err)

	assert.True(t, uploader.uploaded)
	assert.Equal(t, uploader.url, result.ImageURL)
}

func TestScanReceiptWrapsExtractorError(t *testing.T) {
	repo := &fakeReceiptRepo{}
	extractor := &fakeExtractor{err: errors.New("model unavailable")}
	svc := NewReceiptService(repo, extractor, nil, 4)

	_, err := svc.ScanReceipt(context.Background(), []byte("img"), "jpeg", "u-1")
	require.Error(t, err)

	var serr *ReceiptServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "extract_receipt_data", serr.Op)
}

func TestGetRevenueStatsExplicitRange(t *testing.T) {
	repo := &fakeReceiptRepo{
		statsResult: []domain.Receipt{
			{Date: "2025-01-10", TotalAmount: 50000, Category: "Makanan"},
			{Date: "2025-01-11", TotalAmount: 30000},
		},
	}
	svc := NewReceiptService(repo, &fakeExtractor{}, nil, 4)

	got, err := svc.GetRevenueStats(context.Background(), "u-1", "", "2025-01-01", "2025-01-31")
	require.NoError(t, err)

	assert.Equal(t, "u-1", repo.statsFilter.UserID)
	assert.Equal(t, "2025-01-01", repo.statsFilter.StartDate)
	assert.Equal(t, "2025-01-31", repo.statsFilter.EndDate)
	assert.Equal(t, int64(80000), got.TotalRevenue)
	assert.Equal(t, 2, got.TotalReceipts)
}

func TestGetRevenueStatsWindowPresetOverridesRange(t *testing.T) {
	repo := &fakeReceiptRepo{}
	svc := NewReceiptService(repo, &fakeExtractor{}, nil, 4)

	_, err := svc.GetRevenueStats(context.Background(), "u-1", "month", "1999-01-01", "1999-12-31")
	require.NoError(t, err)

	assert.NotEqual(t, "1999-01-01", repo.statsFilter.StartDate)
	assert.NotEmpty(t, repo.statsFilter.StartDate)
}

func TestGetRevenueStatsRejectsUnknownWindow(t *testing.T) {
	svc := NewReceiptService(&fakeReceiptRepo{}, &fakeExtractor{}, nil, 4)

	_, err := svc.GetRevenueStats(context.Background(), "u-1", "decade", "", "")
	require.Error(t, err)

	var serr *ReceiptServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "resolve_stats_window", serr.Op)
}

func TestCreateReceiptWrapsRepositoryError(t *testing.T) {
	repo := &fakeReceiptRepo{err: errors.New("connection refused")}
	svc := NewReceiptService(repo, &fakeExtractor{}, nil, 4)

	_, err := svc.CreateReceipt(context.Background(), &domain.Receipt{UserID: "u-1"})
	require.Error(t, err)

	var serr *ReceiptServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create_receipt", serr.Op)
}
