package model

// ScanReceiptRequest carries the uploaded receipt image as a base64 data URL
// (e.g. "data:image/jpeg;base64,...")
type ScanReceiptRequest struct {
	Image string `json:"image" binding:"required"`
}

// DraftItemResponse is one editable line in a scanned draft
type DraftItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// ScanReceiptResponse is the extraction result returned to the client. It is
// a draft only; nothing has been persisted yet.
type ScanReceiptResponse struct {
	Merchant       string              `json:"merchant"`
	Items          []DraftItemResponse `json:"items"`
	ComputedTotal  int64               `json:"computedTotal"`
	ExtractedTotal int64               `json:"extractedTotal"`
	ImageURL       string              `json:"imageUrl,omitempty"`
}

// ReceiptItemInput is one line item in a create or update request
type ReceiptItemInput struct {
	Name      string `json:"name" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	UnitPrice int64  `json:"unitPrice"`
}

// SaveReceiptRequest is the body for creating or replacing a receipt
type SaveReceiptRequest struct {
	StoreName     string             `json:"storeName" binding:"required"`
	Date          string             `json:"date" binding:"required"`
	TotalAmount   int64              `json:"totalAmount"`
	Items         []ReceiptItemInput `json:"items"`
	Category      string             `json:"category"`
	PaymentMethod string             `json:"paymentMethod"`
	ImageURL      string             `json:"imageUrl"`
}

// ChatMessageInput is one prior turn in an assistant conversation. Sender is
// "user" for the user's turns; anything else is treated as the assistant.
type ChatMessageInput struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatRequest is the body for an assistant chat turn
type ChatRequest struct {
	Message string             `json:"message"`
	History []ChatMessageInput `json:"history"`
}

// ChatResponse carries the assistant's reply
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
