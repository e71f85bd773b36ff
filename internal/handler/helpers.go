package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getQueryInt retrieves an integer query parameter with a default value
func getQueryInt(c *gin.Context, paramName string, defaultValue int) (int, error) {
	valueStr := c.Query(paramName)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}

	return value, nil
}

// validateDate checks a date string is YYYY-MM-DD. Empty strings pass.
func validateDate(dateStr string) error {
	if dateStr == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// decodeImageDataURL decodes a base64 data URL into raw image bytes and the
// bare format suffix ("jpeg", "png"). Bare base64 without a data: prefix is
// accepted and treated as JPEG.
func decodeImageDataURL(dataURL string) ([]byte, string, error) {
	format := "jpeg"
	payload := dataURL

	if strings.HasPrefix(dataURL, "data:") {
		header, rest, found := strings.Cut(dataURL, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		payload = rest

		mediaType := strings.TrimPrefix(header, "data:")
		mediaType, _, _ = strings.Cut(mediaType, ";")
		if sub, ok := strings.CutPrefix(mediaType, "image/"); ok && sub != "" {
			if sub == "jpg" {
				sub = "jpeg"
			}
			format = sub
		}
	}

	imageData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
	}
	if len(imageData) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	return imageData, format, nil
}

// logError emits a structured error log line for a failed request
func logError(c *gin.Context, event string, err error, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"level":     "error",
		"event":     event,
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"error":     err.Error(),
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		entry["request_id"] = requestID
	}
	for key, value := range fields {
		entry[key] = value
	}

	jsonBytes, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Printf(`{"error": "failed to marshal log entry: %v"}%s`, marshalErr, "\n")
		return
	}
	fmt.Println(string(jsonBytes))
}
