package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiError represents an error that occurred during a Gemini API interaction
type GeminiError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *GeminiError) Error() string {
	if e.Err == nil {
		return "gemini error: " + e.Op
	}
	return "gemini error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *GeminiError) Unwrap() error {
	return e.Err
}

// Client wraps the hosted Gemini model used for receipt extraction and the
// conversational assistant. One client serves both; each user action issues
// at most a single, non-retried call.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	ModelID string
}

// DefaultModelID is used when no model is configured
const DefaultModelID = "gemini-2.0-flash"

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, &GeminiError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("Gemini API key is not configured. Please set GEMINI_API_KEY environment variable"),
		}
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &GeminiError{
			Op:  "create_client",
			Err: err,
		}
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelID),
	}, nil
}

// Close releases the underlying API client
func (c *Client) Close() error {
	return c.client.Close()
}
