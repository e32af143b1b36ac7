package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const codeTableJSON = `{
	"0700": {"name": "Tencent Holdings", "chinese_name": "騰訊控股", "exchange": "HKEX"},
	"00005": {"name": "HSBC Holdings", "chinese_name": "滙豐控股", "exchange": "HKEX"},
	"NVDA": {"name": "NVIDIA Corporation", "exchange": "NASDAQ"},
	"600519.SS": {"name": "Kweichow Moutai", "chinese_name": "贵州茅台", "exchange": "SHH"}
}`

func TestReadStockCodes(t *testing.T) {
	table, err := ReadStockCodes(strings.NewReader(codeTableJSON))
	if err != nil {
		t.Fatalf("ReadStockCodes: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("got %d entries, want 4", len(table))
	}
	if table["NVDA"].Exchange != "NASDAQ" {
		t.Errorf("NVDA exchange = %q", table["NVDA"].Exchange)
	}
}

func TestCodeTableLookup(t *testing.T) {
	table, err := ReadStockCodes(strings.NewReader(codeTableJSON))
	if err != nil {
		t.Fatalf("ReadStockCodes: %v", err)
	}

	cases := []struct {
		name     string
		ticker   string
		wantName string
		wantOK   bool
	}{
		{"base code behind suffix", "0700.HK", "Tencent Holdings", true},
		{"zero pad to five", "0005.HK", "HSBC Holdings", true},
		{"plain symbol", "NVDA", "NVIDIA Corporation", true},
		{"full suffixed key", "600519.SS", "Kweichow Moutai", true},
		{"missing", "TSLA", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, ok := table.Lookup(tc.ticker)
			if ok != tc.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tc.ticker, ok, tc.wantOK)
			}
			if entry.Name != tc.wantName {
				t.Errorf("Lookup(%q) name = %q, want %q", tc.ticker, entry.Name, tc.wantName)
			}
		})
	}

	var nilTable CodeTable
	if _, ok := nilTable.Lookup("NVDA"); ok {
		t.Error("nil table lookup should miss")
	}
}

func TestLoadStockCodesNewestWins(t *testing.T) {
	dir := t.TempDir()

	older := `{"0700": {"name": "Old Name", "exchange": "HKEX"}}`
	newer := `{"0700": {"name": "Tencent Holdings", "exchange": "HKEX"}}`
	if err := os.WriteFile(filepath.Join(dir, "stock_code_20240101.json"), []byte(older), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stock_code_20250601.json"), []byte(newer), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadStockCodes(dir)
	if err != nil {
		t.Fatalf("LoadStockCodes: %v", err)
	}
	if entry, _ := table.Lookup("0700.HK"); entry.Name != "Tencent Holdings" {
		t.Errorf("expected newest table, got name %q", entry.Name)
	}
}

func TestLoadStockCodesMissing(t *testing.T) {
	table, err := LoadStockCodes(t.TempDir())
	if err != nil || table != nil {
		t.Errorf("empty dir should load nothing, got table=%v err=%v", table, err)
	}
	table, err = LoadStockCodes("")
	if err != nil || table != nil {
		t.Errorf("unset dir should load nothing, got table=%v err=%v", table, err)
	}
}
