package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const systemPrompt = `You are a financial assistant that extracts structured data from unstructured text.
Analyze the user's message and return a JSON object with exactly these keys:
- "item": string or null
- "amount": number or null
- "category": string or null

"category" must be one of: "Income", "Food", "Transport", "Leisure", "Housing", "Work", "Other".
If a field cannot be identified, return null for it.
Return ONLY the raw JSON object. No markdown, no code fences, no extra text.`

// GeminiClient calls the Gemini API for structured extraction. A single
// attempt per message, bounded by the configured timeout; retries, if ever
// wanted, belong to the caller.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGeminiClient builds a Gemini-backed extraction client.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model, timeout: timeout, logger: logger}, nil
}

// Analyze extracts structured fields from the message body. It never returns
// an error; timeouts and malformed responses are logged and reported as
// Unavailable so one slow or unreachable model call cannot fail the request.
func (c *GeminiClient) Analyze(ctx context.Context, messageBody string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: systemPrompt + "\n\nMessage:\n" + messageBody},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.logger.Warn("extraction call failed", "error", err)
		return Unavailable(fmt.Sprintf("model call failed: %v", err))
	}

	raw := resp.Text()
	if raw == "" {
		c.logger.Warn("extraction returned empty response")
		return Unavailable("empty model response")
	}

	fields, err := decodeFields(raw)
	if err != nil {
		c.logger.Warn("extraction payload rejected", "error", err)
		return Unavailable(err.Error())
	}

	return Result{Available: true, Fields: fields}
}

const advisorPrompt = `You are a personal finance assistant. Below is the user's transaction history, one entry per line, followed by a question about it. Answer concisely in plain text, grounded only in the listed entries.`

// Advise answers a question about the user's transaction history.
func (c *GeminiClient) Advise(ctx context.Context, question string, notes []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := advisorPrompt + "\n\nTransactions:\n" + strings.Join(notes, "\n") + "\n\nQuestion:\n" + question
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("advisor call failed: %w", err)
	}
	answer := resp.Text()
	if answer == "" {
		return "", fmt.Errorf("empty advisor response")
	}
	return answer, nil
}
