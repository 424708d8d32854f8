package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Categories is the closed set a message may be classified into. Anything
// outside it coming back from the model is dropped, never stored.
var Categories = []string{"Income", "Food", "Transport", "Leisure", "Housing", "Work", "Other"}

// Fields holds the structured data extracted from a free-text note. Nil means
// the model could not identify that field.
type Fields struct {
	Item     *string
	Amount   *decimal.Decimal
	Category *string
}

// Result is the availability-tagged outcome of an extraction attempt. When
// Available is false the Reason says why; Fields is zero and must be ignored.
type Result struct {
	Available bool
	Fields    Fields
	Reason    string
}

// Unavailable builds a failed result. Extraction failures are recoverable by
// contract, so this is the only error channel clients expose.
func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

// Client extracts structured fields from a message body. Implementations never
// return an error: any failure (timeout, malformed payload, schema mismatch)
// is reported as an Unavailable result.
type Client interface {
	Analyze(ctx context.Context, messageBody string) Result
}

type wirePayload struct {
	Item     *string      `json:"item"`
	Amount   *json.Number `json:"amount"`
	Category *string      `json:"category"`
}

// decodeFields parses the model's raw text into Fields, tolerating markdown
// fences around the JSON object. Amounts are normalized to two decimal places;
// categories outside the closed set are dropped.
func decodeFields(raw string) (Fields, error) {
	clean := stripFences(raw)

	var payload wirePayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return Fields{}, fmt.Errorf("decode extraction payload: %w", err)
	}

	var fields Fields
	if payload.Item != nil && *payload.Item != "" {
		fields.Item = payload.Item
	}
	if payload.Amount != nil {
		amount, err := decimal.NewFromString(payload.Amount.String())
		if err != nil {
			return Fields{}, fmt.Errorf("decode extraction amount %q: %w", payload.Amount.String(), err)
		}
		amount = amount.Round(2)
		fields.Amount = &amount
	}
	if payload.Category != nil {
		for _, known := range Categories {
			if strings.EqualFold(*payload.Category, known) {
				category := known
				fields.Category = &category
				break
			}
		}
	}
	return fields, nil
}

// stripFences removes ```json ... ``` wrappers and surrounding junk the model
// sometimes emits despite instructions, keeping only the outermost object.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
