package client

import (
	"context"
	"fmt"
	"time"

	"stockbrief/model"

	"github.com/go-resty/resty/v2"
)

// BriefClient is the terminal app's view of the analysis server. Transport
// and protocol failures come back as errors; a delivered envelope with
// Success=false does not, so callers can tell the two apart.
type BriefClient struct {
	client *resty.Client
}

func NewBriefClient(baseURL string) *BriefClient {
	client := resty.New().
		SetBaseURL(baseURL).
		// Generation can take minutes on a cold section; stay above the
		// server's own deadline so its answer wins.
		SetTimeout(4 * time.Minute).
		SetHeaders(map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		})

	return &BriefClient{client: client}
}

// Sections fetches the ordered section list the server analyzes.
func (b *BriefClient) Sections(ctx context.Context) ([]model.SectionName, error) {
	var sections []model.SectionName
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&sections).
		Get("/api/sections")

	if err != nil {
		return nil, fmt.Errorf("section list request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("section list request failed with status %d", resp.StatusCode())
	}
	return sections, nil
}

// AnalyzeSection requests one section report for a ticker.
func (b *BriefClient) AnalyzeSection(ctx context.Context, ticker string, section model.Section, force bool) (*model.AnalyzeResponse, error) {
	var out model.AnalyzeResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(model.AnalyzeRequest{Ticker: ticker, ForceUpdate: force}).
		SetResult(&out).
		Post("/api/analyze/" + string(section))

	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("analysis request failed with status %d", resp.StatusCode())
	}
	return &out, nil
}

type stockDetailEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    model.StockDetail `json:"data"`
	Error   string            `json:"error"`
}

// Stock fetches the stored identity record for a ticker. Returns
// (nil, nil) when the server has nothing yet, which is normal before the
// first analysis.
func (b *BriefClient) Stock(ctx context.Context, ticker string) (*model.StockDetail, error) {
	var envelope stockDetailEnvelope
	resp, err := b.client.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/api/stocks/" + ticker)

	if err != nil {
		return nil, fmt.Errorf("stock request failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, nil // Consistent with our Optional pattern
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("stock request failed with status %d", resp.StatusCode())
	}
	return &envelope.Data, nil
}
