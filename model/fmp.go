package model

// SymbolMatch is one row of the FMP /stable/search-symbol response.
type SymbolMatch struct {
	Symbol           string `json:"symbol"`
	Name             string `json:"name"`
	Currency         string `json:"currency"`
	Exchange         string `json:"exchange"`
	ExchangeFullName string `json:"exchangeFullName"`
}
