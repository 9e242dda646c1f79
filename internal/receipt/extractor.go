package receipt

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractedFields is what the AI pulls out of a receipt image.
type ExtractedFields struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // "2006-01-02"
	Category string  `json:"category"`
}

// Extractor turns a receipt file into structured fields. Implementations
// call an external service; failures are reported, never guessed around —
// the handler decides what defaults to fall back to.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (*ExtractedFields, error)
}

var codeFenceRe = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// parseExtractionJSON parses a model response, tolerating markdown code
// fences around the JSON object.
func parseExtractionJSON(raw string) (*ExtractedFields, error) {
	cleaned := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}

	var fields ExtractedFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, err
	}
	return &fields, nil
}
