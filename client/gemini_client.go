package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockbrief/customerrors"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	// One initial attempt plus two retries, fixed wait. Failures after that
	// surface to the user; there is no backoff queue.
	generateAttempts = 3
	retryWait        = 5 * time.Second
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GenerateReport runs one grounded generation for a section briefing.
// Search is enabled so the model can cite current filings and prices.
func (g *GeminiClient) GenerateReport(ctx context.Context, systemRole, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 8000,
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	if systemRole != "" {
		config.SystemInstruction = genai.NewContentFromText(systemRole, genai.RoleUser)
	}

	return g.generate(ctx, prompt, config)
}

// GenerateShort is for small untooled lookups such as resolving a company's
// Chinese name. Low temperature, tight token budget.
func (g *GeminiClient) GenerateShort(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		MaxOutputTokens: 128,
	}
	return g.generate(ctx, prompt, config)
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= generateAttempts; attempt++ {
		if attempt > 1 {
			log.Warn().
				Int("attempt", attempt).
				Bool("rate_limited", isRateLimitError(lastErr)).
				Msg("Retrying Gemini call")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryWait):
			}
		}

		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			lastErr = err
			continue
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			lastErr = customerrors.ErrEmptyReport
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", generateAttempts, lastErr)
}

// isRateLimitError matches 429 / RESOURCE_EXHAUSTED responses, which are the
// retries most worth logging distinctly.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "quota")
}
