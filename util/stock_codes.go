package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// CodeEntry is one row of the offline stock-code table.
type CodeEntry struct {
	Name        string `json:"name"`
	ChineseName string `json:"chinese_name"`
	Exchange    string `json:"exchange"`
}

// CodeTable maps listing codes to identity entries. Keys may or may not
// carry an exchange suffix depending on the export, so Lookup tries several
// spellings.
type CodeTable map[string]CodeEntry

// ReadStockCodes parses a code table from JSON.
// io.Reader so it works with files, embedded data, or strings.
func ReadStockCodes(r io.Reader) (CodeTable, error) {
	var table CodeTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to parse stock code table: %w", err)
	}
	return table, nil
}

// LoadStockCodes reads the newest stock_code_*.json in dir. A missing or
// empty directory is not an error: lookups just fall through to the remote
// search.
func LoadStockCodes(dir string) (CodeTable, error) {
	if dir == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "stock_code_*.json"))
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	sort.Strings(matches)
	newest := matches[len(matches)-1]

	f, err := os.Open(newest)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", newest, err)
	}
	defer f.Close()

	return ReadStockCodes(f)
}

// Lookup resolves a normalized ticker against the table, trying the full
// symbol, the bare code, and zero-padded variants of numeric codes.
func (t CodeTable) Lookup(ticker string) (CodeEntry, bool) {
	if t == nil {
		return CodeEntry{}, false
	}
	base := BaseCode(ticker)
	attempts := []string{ticker, base}
	if isDigits(base) {
		attempts = append(attempts, zeroPad(base, 4), zeroPad(base, 5))
	}
	for _, key := range attempts {
		if entry, ok := t[key]; ok {
			return entry, true
		}
	}
	return CodeEntry{}, false
}
