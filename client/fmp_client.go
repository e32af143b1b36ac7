package client

import (
	"context"
	"fmt"
	"time"

	"stockbrief/middleware"
	"stockbrief/model"

	"github.com/go-resty/resty/v2"
)

type FmpClient struct {
	client *resty.Client
}

// NewFmpClient builds the Financial Modeling Prep search client. baseURL is
// overridable for tests; pass "" for the real endpoint.
func NewFmpClient(apiKey, baseURL string) *FmpClient {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/stable"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(7 * time.Second).
		SetHeaders(map[string]string{
			"Accept":          "application/json",
			"Accept-Encoding": "gzip, deflate, br",
		}).
		SetQueryParam("apikey", apiKey)

	client.OnAfterResponse(middleware.DecompressMiddleware)

	return &FmpClient{client: client}
}

// SearchSymbol queries FMP symbol search. Match selection happens in the
// lookup service; this just returns the decoded rows.
func (f *FmpClient) SearchSymbol(ctx context.Context, query string) ([]model.SymbolMatch, error) {
	var matches []model.SymbolMatch
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&matches).
		Get("/search-symbol")

	if err != nil {
		return nil, fmt.Errorf("FMP request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("FMP search failed with status %d", resp.StatusCode())
	}
	return matches, nil
}
