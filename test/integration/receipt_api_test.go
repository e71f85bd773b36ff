package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReceiptItem represents a line item in API payloads
type TestReceiptItem struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// TestReceipt represents a receipt in the API
type TestReceipt struct {
	ID            string            `json:"id,omitempty"`
	StoreName     string            `json:"storeName"`
	Date          string            `json:"date"`
	TotalAmount   int64             `json:"totalAmount"`
	Category      string            `json:"category,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Items         []TestReceiptItem `json:"items"`
	CreatedAt     string            `json:"createdAt,omitempty"`
	UpdatedAt     string            `json:"updatedAt,omitempty"`
}

// TestReceiptPage represents the response from GET /receipts
type TestReceiptPage struct {
	Receipts   []TestReceipt `json:"receipts"`
	NextCursor string        `json:"nextCursor,omitempty"`
}

// TestAuthResponse represents the response from auth endpoints
type TestAuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TestRevenueStats represents the response from GET /revenue/stats
type TestRevenueStats struct {
	TotalRevenue       int64            `json:"totalRevenue"`
	TotalReceipts      int              `json:"totalReceipts"`
	AverageTransaction int64            `json:"averageTransaction"`
	MonthlyRevenue     map[string]int64 `json:"monthlyRevenue"`
	CategoryBreakdown  map[string]int64 `json:"categoryBreakdown"`
}

// TestReceiptAPI exercises the receipt API endpoints against a running server
func TestReceiptAPI(t *testing.T) {
	// Configure base URL - use environment variable or default
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Skip when no server is listening
	if _, err := client.Get(baseURL + "/health"); err != nil {
		t.Skipf("server not reachable at %s: %v", baseURL, err)
	}

	// Register a throwaway user and grab a token
	var accessToken string
	t.Run("Register", func(t *testing.T) {
		registerInput := map[string]interface{}{
			"email":    fmt.Sprintf("integration-%d@example.com", time.Now().UnixNano()),
			"password": "rahasia123",
			"name":     "Integration Tester",
		}

		resp := postJSON(t, client, baseURL+"/v1/auth/register", "", registerInput)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var auth TestAuthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
		require.NotEmpty(t, auth.AccessToken)
		accessToken = auth.AccessToken
	})

	var testReceiptID string

	t.Run("CreateReceipt", func(t *testing.T) {
		receiptInput := map[string]interface{}{
			"storeName": "Toko Integration",
			"date":      time.Now().Format("2006-01-02"),
			"category":  "groceries",
			"items": []map[string]interface{}{
				{"name": "Indomie Goreng", "quantity": 5, "unitPrice": 3500},
				{"name": "Teh Botol", "quantity": 2, "unitPrice": 5000},
			},
		}

		resp := postJSON(t, client, baseURL+"/v1/receipts", accessToken, receiptInput)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created TestReceipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Toko Integration", created.StoreName)
		// 5*3500 + 2*5000
		assert.Equal(t, int64(27500), created.TotalAmount)
		testReceiptID = created.ID
	})

	t.Run("GetReceipt", func(t *testing.T) {
		resp := getWithAuth(t, client, fmt.Sprintf("%s/v1/receipts/%s", baseURL, testReceiptID), accessToken)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got TestReceipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, testReceiptID, got.ID)
		assert.Len(t, got.Items, 2)
	})

	t.Run("ListReceipts", func(t *testing.T) {
		resp := getWithAuth(t, client, baseURL+"/v1/receipts?limit=10", accessToken)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page TestReceiptPage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.NotEmpty(t, page.Receipts)
		assert.Equal(t, testReceiptID, page.Receipts[0].ID)
	})

	t.Run("SearchReceipts", func(t *testing.T) {
		resp := getWithAuth(t, client, baseURL+"/v1/receipts/search?q=Indomie", accessToken)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var results []TestReceipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
		require.NotEmpty(t, results)
		assert.Equal(t, testReceiptID, results[0].ID)
	})

	t.Run("UpdateReceipt", func(t *testing.T) {
		updateInput := map[string]interface{}{
			"storeName": "Toko Integration Baru",
			"date":      time.Now().Format("2006-01-02"),
			"category":  "groceries",
			"items": []map[string]interface{}{
				{"name": "Indomie Goreng", "quantity": 10, "unitPrice": 3500},
			},
		}

		req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/v1/receipts/%s", baseURL, testReceiptID), jsonBody(t, updateInput))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated TestReceipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, "Toko Integration Baru", updated.StoreName)
		assert.Equal(t, int64(35000), updated.TotalAmount)
	})

	t.Run("RevenueStats", func(t *testing.T) {
		resp := getWithAuth(t, client, baseURL+"/v1/revenue/stats?window=month", accessToken)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats TestRevenueStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 1, stats.TotalReceipts)
		assert.Equal(t, int64(35000), stats.TotalRevenue)
		assert.Equal(t, int64(35000), stats.AverageTransaction)
	})

	t.Run("DeleteReceipt", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/receipts/%s", baseURL, testReceiptID), nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// A second fetch should now 404
		check := getWithAuth(t, client, fmt.Sprintf("%s/v1/receipts/%s", baseURL, testReceiptID), accessToken)
		defer check.Body.Close()
		assert.Equal(t, http.StatusNotFound, check.StatusCode)
	})
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err, "Failed to marshal payload")
	return bytes.NewBuffer(body)
}

func postJSON(t *testing.T, client *http.Client, url, token string, payload interface{}) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, jsonBody(t, payload))
	require.NoError(t, err, "Failed to create request")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to execute request")
	return resp
}

func getWithAuth(t *testing.T, client *http.Client, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err, "Failed to create request")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to execute request")
	return resp
}
