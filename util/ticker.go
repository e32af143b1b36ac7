package util

import "strings"

// usExchanges are the exchange codes for which we skip Chinese-name
// resolution: FMP reports US listings under these.
var usExchanges = map[string]struct{}{
	"NYSE":     {},
	"NASDAQ":   {},
	"AMEX":     {},
	"NYSEArca": {},
	"BATS":     {},
	"OTC":      {},
}

// NormalizeTicker canonicalizes user input into the symbol form the rest of
// the system keys on. Bare numeric codes up to four digits are Hong Kong
// listings: zero-pad to four and append .HK. Longer numeric codes (mainland
// six-digit) and anything already carrying letters or an exchange suffix are
// kept as typed, uppercased.
func NormalizeTicker(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return ""
	}
	if strings.Contains(t, ".") {
		return t
	}
	if isDigits(t) {
		if len(t) <= 4 {
			return zeroPad(t, 4) + ".HK"
		}
		return t
	}
	return t
}

// SafeDirName maps a ticker to a filesystem-safe directory name.
func SafeDirName(ticker string) string {
	return strings.ReplaceAll(ticker, ".", "_")
}

// IsUSExchange reports whether an exchange code belongs to the US set.
func IsUSExchange(exchange string) bool {
	_, ok := usExchanges[exchange]
	return ok
}

// BaseCode strips the exchange suffix: "0700.HK" -> "0700".
func BaseCode(ticker string) string {
	if i := strings.IndexByte(ticker, '.'); i >= 0 {
		return ticker[:i]
	}
	return ticker
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
