package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/strukly/strukly-backend/internal/draft"
)

// extractionPrompt instructs the model to return strict JSON. Item prices are
// unit prices; when a receipt only shows per-line totals the model divides by
// quantity. total_amount is the printed grand total including tax/discount.
const extractionPrompt = `Extract receipt data into strict JSON.
JSON Structure:
{
  "merchant": "Store Name",
  "total_amount": 0,
  "items": [
    {
      "name": "Item Name",
      "quantity": 1,
      "price": 10000
    }
  ]
}
Rules:
- "price" is the UNIT price. If the receipt only shows a line total, divide it by the quantity.
- "total_amount" is the final grand total (including tax/discount).
- Return ONLY raw JSON.`

// ExtractReceipt sends a receipt image to the model and parses the structured
// result. Single-shot: no retry, no streaming. imageFormat is the bare format
// suffix, e.g. "jpeg" or "png".
func (c *Client) ExtractReceipt(ctx context.Context, imageData []byte, imageFormat string) (*draft.RawExtraction, error) {
	parts := []genai.Part{
		genai.ImageData(imageFormat, imageData),
		genai.Text(extractionPrompt),
	}

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &GeminiError{
			Op:  "generate_extraction",
			Err: err,
		}
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	return decodeExtraction(text)
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &GeminiError{
			Op:  "check_response_candidates",
			Err: fmt.Errorf("no candidates in response"),
		}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// wireItem and wireExtraction tolerate the model emitting fractional numbers
// where integers are expected.
type wireItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type wireExtraction struct {
	Merchant    string     `json:"merchant"`
	TotalAmount float64    `json:"total_amount"`
	Items       []wireItem `json:"items"`
}

// decodeExtraction parses the model's text output: strips markdown code
// fences, slices the substring between the first '{' and the last '}', and
// unmarshals the result.
func decodeExtraction(text string) (*draft.RawExtraction, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last < first {
		return nil, &GeminiError{
			Op:  "locate_json",
			Err: fmt.Errorf("no JSON object in model response"),
		}
	}
	text = text[first : last+1]

	var wire wireExtraction
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, &GeminiError{
			Op:  "parse_extraction_json",
			Err: fmt.Errorf("failed to unmarshal extraction result: %w", err),
		}
	}

	raw := &draft.RawExtraction{
		Merchant:    wire.Merchant,
		TotalAmount: roundAmount(wire.TotalAmount),
		Items:       make([]draft.RawItem, 0, len(wire.Items)),
	}
	for _, it := range wire.Items {
		raw.Items = append(raw.Items, draft.RawItem{
			Name:      it.Name,
			Quantity:  int(math.Round(it.Quantity)),
			UnitPrice: roundAmount(it.Price),
		})
	}
	return raw, nil
}

func roundAmount(v float64) int64 {
	return int64(math.Round(v))
}
