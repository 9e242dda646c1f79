package receipt

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const extractionPrompt = `
Analyze this receipt image. Extract the following details:
- merchant: The name of the store or merchant.
- amount: The final total amount paid, as a number.
- date: The date of the transaction in YYYY-MM-DD format.
- category: Suggest a likely category from this list: Groceries, Food, Shopping, Bills, Transportation, Entertainment.

Return the result as a single, minified JSON object. For example:
{"merchant":"Walmart","amount":42.97,"date":"2025-09-13","category":"Groceries"}
`

// GeminiExtractor extracts receipt fields with the Gemini API. One client
// is created at startup and shared across requests.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, data []byte, mimeType string) (*ExtractedFields, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(extractionPrompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return parseExtractionJSON(resp.Text())
}
