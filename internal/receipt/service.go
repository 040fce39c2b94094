package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Common errors
var (
	ErrNotConfigured = errors.New("receipt analysis is not configured")
	ErrEmptyResponse = errors.New("model returned no content")
)

const systemPrompt = `You are a receipt scanning assistant.
Extract the list of purchased items from the receipt image.
Return ONLY a JSON object with these fields:
- items (array): one object per purchased line with:
  - name (string): the name of the item
  - unit_price (number): the price of a single unit of this item
  - quantity (number): the quantity (default to 1 if not specified)
- tax_rate (number, optional): the tax percentage if the receipt shows one
- service_charge_rate (number, optional): the service charge percentage if the receipt shows one

Do not include subtotal, tax, or total lines as items.
Do not include any text, markdown, or code blocks before or after the JSON object.`

// Service analyzes receipt photos with a vision model
type Service struct {
	client  anthropic.Client
	model   string
	enabled bool
}

// NewService creates a receipt analysis service. An empty API key leaves
// the service disabled; Analyze then fails with ErrNotConfigured.
func NewService(apiKey, model string) *Service {
	return &Service{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		enabled: apiKey != "",
	}
}

// Analyze extracts line items (and detected rates) from a receipt image
func (s *Service) Analyze(ctx context.Context, image []byte, mediaType string) (*AnalyzeResponse, error) {
	if !s.enabled {
		return nil, ErrNotConfigured
	}

	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   1024,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock("Extract the items from this receipt."),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("receipt analysis failed: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}
	if text.Len() == 0 {
		return nil, ErrEmptyResponse
	}

	return parseAnalysis(text.String())
}

// parseAnalysis decodes the model's JSON reply. Models occasionally wrap
// output in markdown fences despite instructions, so those are stripped
// first. Items without a name are dropped and quantity defaults to 1.
func parseAnalysis(text string) (*AnalyzeResponse, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	parsed := &AnalyzeResponse{}
	if err := json.Unmarshal([]byte(cleaned), parsed); err != nil {
		return nil, fmt.Errorf("failed to parse receipt analysis: %w", err)
	}

	items := make([]ExtractedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Name == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	parsed.Items = items

	return parsed, nil
}
