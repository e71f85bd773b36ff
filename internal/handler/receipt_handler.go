package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strukly/strukly-backend/internal/domain"
	"github.com/strukly/strukly-backend/internal/gemini"
	"github.com/strukly/strukly-backend/internal/model"
	"github.com/strukly/strukly-backend/internal/repository"
	"github.com/strukly/strukly-backend/internal/service"
)

// ReceiptHandler handles HTTP requests for receipt-related operations
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// ScanReceipt handles the POST /receipts/scan endpoint
// @Summary Scan a receipt image
// @Description Extract receipt data from a base64 image into an editable draft. Nothing is persisted.
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body model.ScanReceiptRequest true "Base64 data URL of the receipt image"
// @Success 200 {object} model.ScanReceiptResponse "Extracted draft"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Extraction failed"
// @Security BearerAuth
// @Router /v1/receipts/scan [post]
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	// Get user ID from context (set by auth middleware)
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var req model.ScanReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput, newErrorDetail("image", "Receipt image is required"))
		return
	}

	imageData, imageFormat, err := decodeImageDataURL(req.Image)
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("image", "Expected a base64 data URL"))
		return
	}

	// Process receipt image
	result, err := h.receiptService.ScanReceipt(c.Request.Context(), imageData, imageFormat, userID.(string))
	if err != nil {
		logError(c, "failed_to_scan_receipt", err, map[string]interface{}{
			"error_type": "service_error",
			"image_size": len(imageData),
		})

		var gerr *gemini.GeminiError
		if strings.Contains(fmt.Sprintf("%v", err), "not configured") {
			respondBadRequest(c, fmt.Sprintf("Configuration error: %v", err))
		} else if errors.As(err, &gerr) && (gerr.Op == "locate_json" || gerr.Op == "parse_extraction_json") {
			respondInternalServerError(c, ErrDataExtraction)
		} else {
			respondInternalServerError(c, ErrImageProcessing)
		}
		return
	}

	respondOK(c, formatScanResponse(result))
}

// CreateReceipt handles the POST /receipts endpoint
// @Summary Create a new receipt
// @Description Persist an edited draft (or manual entry) as a receipt
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body model.SaveReceiptRequest true "Receipt data"
// @Success 201 {object} domain.Receipt "Receipt created successfully"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	// Get user ID from context (set by auth middleware)
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var req model.SaveReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	// Validate required fields
	if validationErrors := validateReceiptInput(&req); len(validationErrors) > 0 {
		respondBadRequest(c, ErrInvalidInput, validationErrors...)
		return
	}

	input := toDomainReceipt(userID.(string), "", &req)

	// Create receipt
	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), input)
	if err != nil {
		respondInternalServerError(c, fmt.Sprintf("Failed to create receipt: %v", err))
		return
	}

	respondCreated(c, receipt)
}

// GetReceipts handles the GET /receipts endpoint
// @Summary List receipts
// @Description Get one page of the user's receipts, newest first
// @Tags receipts
// @Accept json
// @Produce json
// @Param limit query int false "Items per page" default(20)
// @Param cursor query string false "Opaque cursor from a previous page"
// @Success 200 {object} domain.ReceiptPage "Page of receipts"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts [get]
func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	limit, err := getQueryInt(c, "limit", 20)
	if err != nil || limit < 1 {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("limit", "Limit must be a positive integer"))
		return
	}
	cursor := c.Query("cursor")

	page, err := h.receiptService.ListReceipts(c.Request.Context(), userID.(string), limit, cursor)
	if err != nil {
		if strings.Contains(fmt.Sprintf("%v", err), "invalid cursor") {
			respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("cursor", "Cursor is not valid"))
			return
		}
		respondInternalServerError(c, fmt.Sprintf("Failed to retrieve receipts: %v", err))
		return
	}

	respondOK(c, page)
}

// SearchReceipts handles the GET /receipts/search endpoint
// @Summary Search receipts
// @Description Find the user's receipts by store name or item name
// @Tags receipts
// @Accept json
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} domain.Receipt "Matching receipts"
// @Failure 400 {object} model.ErrorResponse "Missing search term"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts/search [get]
func (h *ReceiptHandler) SearchReceipts(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("q", "Search term is required"))
		return
	}

	receipts, err := h.receiptService.SearchReceipts(c.Request.Context(), userID.(string), term)
	if err != nil {
		respondInternalServerError(c, fmt.Sprintf("Failed to search receipts: %v", err))
		return
	}

	respondOK(c, receipts)
}

// GetReceiptByID handles the GET /receipts/{receiptId} endpoint
// @Summary Get a receipt by ID
// @Description Retrieve one of the user's receipts by its ID
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} domain.Receipt "Receipt details"
// @Failure 400 {object} model.ErrorResponse "Invalid receipt ID"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts/{receiptId} [get]
func (h *ReceiptHandler) GetReceiptByID(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), userID.(string), receiptID)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to retrieve receipt: %v", err))
		}
		return
	}

	respondOK(c, receipt)
}

// UpdateReceipt handles the PUT /receipts/{receiptId} endpoint
// @Summary Update a receipt
// @Description Replace an existing receipt's fields and items
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Param receipt body model.SaveReceiptRequest true "Updated receipt data"
// @Success 200 {object} domain.Receipt "Receipt updated successfully"
// @Failure 400 {object} model.ErrorResponse "Invalid input"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts/{receiptId} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.SaveReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if validationErrors := validateReceiptInput(&req); len(validationErrors) > 0 {
		respondBadRequest(c, ErrInvalidInput, validationErrors...)
		return
	}

	input := toDomainReceipt(userID.(string), receiptID, &req)

	updatedReceipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to update receipt: %v", err))
		}
		return
	}

	respondOK(c, updatedReceipt)
}

// DeleteReceipt handles the DELETE /receipts/{receiptId} endpoint
// @Summary Delete a receipt
// @Description Delete one of the user's receipts by ID
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 204 "Receipt deleted successfully"
// @Failure 400 {object} model.ErrorResponse "Invalid receipt ID"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/receipts/{receiptId} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err = h.receiptService.DeleteReceipt(c.Request.Context(), userID.(string), receiptID)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to delete receipt: %v", err))
		}
		return
	}

	respondNoContent(c)
}

// GetRevenueStats handles the GET /revenue/stats endpoint
// @Summary Get revenue statistics
// @Description Recompute aggregate revenue figures for a window preset or explicit date range
// @Tags revenue
// @Accept json
// @Produce json
// @Param window query string false "Window preset: today, week, month, year"
// @Param startDate query string false "Start date (YYYY-MM-DD), inclusive"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} domain.RevenueStats "Revenue statistics"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /v1/revenue/stats [get]
func (h *ReceiptHandler) GetRevenueStats(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	window := c.Query("window")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	if err := validateDate(startDate); err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("startDate", err.Error()))
		return
	}
	if err := validateDate(endDate); err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("endDate", err.Error()))
		return
	}

	statsResult, err := h.receiptService.GetRevenueStats(c.Request.Context(), userID.(string), window, startDate, endDate)
	if err != nil {
		var serr *service.ReceiptServiceError
		if errors.As(err, &serr) && serr.Op == "resolve_stats_window" {
			respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("window", "Window must be one of: today, week, month, year"))
			return
		}
		respondInternalServerError(c, fmt.Sprintf("Failed to compute revenue stats: %v", err))
		return
	}

	respondOK(c, statsResult)
}

// Helper functions

// validateReceiptInput validates required fields in a save request
func validateReceiptInput(req *model.SaveReceiptRequest) []model.ErrorDetail {
	var details []model.ErrorDetail

	if req.StoreName == "" {
		details = append(details, newErrorDetail("storeName", "Store name is required"))
	}

	if err := validateDate(req.Date); err != nil || req.Date == "" {
		details = append(details, newErrorDetail("date", "Date is required in YYYY-MM-DD format"))
	}

	if req.TotalAmount < 0 {
		details = append(details, newErrorDetail("totalAmount", "Total cannot be negative"))
	}

	for i, item := range req.Items {
		if item.Name == "" {
			details = append(details, newErrorDetail(
				fmt.Sprintf("items[%d].name", i),
				"Item name is required",
			))
		}
		if item.Quantity <= 0 {
			details = append(details, newErrorDetail(
				fmt.Sprintf("items[%d].quantity", i),
				"Item quantity must be greater than zero",
			))
		}
		if item.UnitPrice < 0 {
			details = append(details, newErrorDetail(
				fmt.Sprintf("items[%d].unitPrice", i),
				"Item price cannot be negative",
			))
		}
	}

	return details
}

// toDomainReceipt converts a save request into a domain receipt. When the
// request carries no total, it is computed from the items.
func toDomainReceipt(userID, receiptID string, req *model.SaveReceiptRequest) *domain.Receipt {
	receipt := &domain.Receipt{
		ID:            receiptID,
		UserID:        userID,
		StoreName:     req.StoreName,
		Date:          req.Date,
		TotalAmount:   req.TotalAmount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		ImageURL:      req.ImageURL,
		Items:         make([]domain.ReceiptItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if receipt.TotalAmount == 0 {
		for _, item := range receipt.Items {
			receipt.TotalAmount += item.LineTotal()
		}
	}

	return receipt
}

// formatScanResponse formats a scan result for response
func formatScanResponse(result *service.ScanResult) model.ScanReceiptResponse {
	items := make([]model.DraftItemResponse, 0, len(result.Draft.Items))
	for _, item := range result.Draft.Items {
		items = append(items, model.DraftItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return model.ScanReceiptResponse{
		Merchant:       result.Draft.Merchant,
		Items:          items,
		ComputedTotal:  result.Draft.Total(),
		ExtractedTotal: result.ExtractedTotal,
		ImageURL:       result.ImageURL,
	}
}

// RegisterRoutes registers the API routes for the receipt handler
func (h *ReceiptHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Create API group with base path
	api := router.Group("/v1")

	// Receipt endpoints - all protected with auth
	receipts := api.Group("/receipts", authMiddleware)
	{
		receipts.POST("/scan", h.ScanReceipt)
		receipts.POST("", h.CreateReceipt)
		receipts.GET("", h.GetReceipts)
		receipts.GET("/search", h.SearchReceipts)
		receipts.GET("/:receiptId", h.GetReceiptByID)
		receipts.PUT("/:receiptId", h.UpdateReceipt)
		receipts.DELETE("/:receiptId", h.DeleteReceipt)
	}

	// Revenue endpoints - protected with auth
	revenue := api.Group("/revenue", authMiddleware)
	{
		revenue.GET("/stats", h.GetRevenueStats)
	}
}
