package model

import "time"

const StockCollectionName = "stock_analysis"

// StockInfo is the persisted record for one ticker: resolved identity plus
// the generated report HTML per section.
type StockInfo struct {
	Ticker      string             `bson:"_id" json:"ticker"`
	Name        string             `bson:"name" json:"name"`
	ChineseName string             `bson:"chineseName,omitempty" json:"chineseName,omitempty"`
	Exchange    string             `bson:"exchange,omitempty" json:"exchange,omitempty"`
	Sections    map[Section]string `bson:"sections,omitempty" json:"sections,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Section returns the stored report body for a section, if any.
func (s *StockInfo) Section(section Section) (string, bool) {
	if s == nil || s.Sections == nil {
		return "", false
	}
	body, ok := s.Sections[section]
	return body, ok && body != ""
}

// DisplayName prefers the Chinese name for non-US listings when present.
func (s *StockInfo) DisplayName() string {
	if s.ChineseName != "" {
		return s.ChineseName + " (" + s.Name + ")"
	}
	return s.Name
}

// AnalyzeRequest is the boundary payload for POST /api/analyze/:section.
type AnalyzeRequest struct {
	Ticker      string `json:"ticker"`
	ForceUpdate bool   `json:"forceUpdate"`
}

// AnalyzeResponse is the boundary answer shape. Report and FromCache are only
// meaningful when Success is true; Error only when it is false.
type AnalyzeResponse struct {
	Success   bool   `json:"success"`
	Report    string `json:"report,omitempty"`
	FromCache bool   `json:"fromCache,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SectionName pairs a section key with its human label for the sections
// listing endpoint.
type SectionName struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// StockSummary is the admin listing DTO mapped from StockInfo.
type StockSummary struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	ChineseName string    `json:"chineseName,omitempty"`
	Exchange    string    `json:"exchange,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StockDetail adds the stored-section keys to the summary.
type StockDetail struct {
	StockSummary
	CreatedAt time.Time `json:"createdAt"`
	Sections  []string  `json:"sections"`
}

// UpdateStockRequest carries optional identity corrections for a stored
// ticker. Decoded from a dynamic PATCH body, so absent and empty fields are
// distinguishable at the map level, not here.
type UpdateStockRequest struct {
	Name        string `json:"name" mapstructure:"name"`
	ChineseName string `json:"chineseName" mapstructure:"chineseName"`
	Exchange    string `json:"exchange" mapstructure:"exchange"`
}

// --- Huma Structs ---

type ListStocksResponse struct {
	Body Response
}

type TickerInput struct {
	Ticker string `path:"ticker" doc:"Normalized ticker" example:"0700.HK"`
}

type UpdateStockInput struct {
	Ticker string `path:"ticker"`
	Body   map[string]any
}
