package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockbrief/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze/finance", r.URL.Path)

		var req model.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "NVDA", req.Ticker)
		assert.True(t, req.ForceUpdate)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "report": "<p>Solid margins</p>", "fromCache": false}`))
	}))
	defer srv.Close()

	brief := NewBriefClient(srv.URL)
	resp, err := brief.AnalyzeSection(context.Background(), "NVDA", model.SectionFinance, true)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "<p>Solid margins</p>", resp.Report)
	assert.False(t, resp.FromCache)
}

// A delivered failure envelope is a valid answer, not a client error.
func TestAnalyzeSectionRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error": "rate limited"}`))
	}))
	defer srv.Close()

	brief := NewBriefClient(srv.URL)
	resp, err := brief.AnalyzeSection(context.Background(), "NVDA", model.SectionFinance, false)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "rate limited", resp.Error)
}

func TestAnalyzeSectionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: connection refused

	brief := NewBriefClient(srv.URL)
	_, err := brief.AnalyzeSection(context.Background(), "NVDA", model.SectionFinance, false)
	require.Error(t, err)
}

func TestSections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sections", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"key": "biz", "name": "Business Model"}, {"key": "finance", "name": "Financial Analysis"}]`))
	}))
	defer srv.Close()

	brief := NewBriefClient(srv.URL)
	sections, err := brief.Sections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "biz", sections[0].Key)
	assert.Equal(t, "Financial Analysis", sections[1].Name)
}

func TestStockMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stocks/NVDA", r.URL.Path)
		http.Error(w, `{"title": "Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	brief := NewBriefClient(srv.URL)
	detail, err := brief.Stock(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"message": "Fetch successful",
			"data": {"ticker": "0700.HK", "name": "Tencent Holdings Limited", "chineseName": "腾讯控股", "exchange": "HKEX", "sections": ["finance"]}
		}`))
	}))
	defer srv.Close()

	brief := NewBriefClient(srv.URL)
	detail, err := brief.Stock(context.Background(), "0700.HK")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "腾讯控股", detail.ChineseName)
	assert.Equal(t, []string{"finance"}, detail.Sections)
}
