package util

import "testing"

func TestNormalizeTicker(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"short hk code padded", "700", "0700.HK"},
		{"four digit hk code", "9988", "9988.HK"},
		{"single digit", "5", "0005.HK"},
		{"five digit code kept", "00700", "00700"},
		{"mainland six digit kept", "600519", "600519"},
		{"us symbol uppercased", "nvda", "NVDA"},
		{"trimmed and uppercased", "  aapl ", "AAPL"},
		{"suffix kept", "0700.hk", "0700.HK"},
		{"mixed code kept", "BRK.B", "BRK.B"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTicker(tc.in); got != tc.want {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSafeDirName(t *testing.T) {
	if got := SafeDirName("0700.HK"); got != "0700_HK" {
		t.Errorf("SafeDirName(0700.HK) = %q", got)
	}
	if got := SafeDirName("NVDA"); got != "NVDA" {
		t.Errorf("SafeDirName(NVDA) = %q", got)
	}
}

func TestIsUSExchange(t *testing.T) {
	for _, ex := range []string{"NYSE", "NASDAQ", "AMEX", "NYSEArca", "BATS", "OTC"} {
		if !IsUSExchange(ex) {
			t.Errorf("IsUSExchange(%s) = false", ex)
		}
	}
	for _, ex := range []string{"HKEX", "SHH", "SHZ", ""} {
		if IsUSExchange(ex) {
			t.Errorf("IsUSExchange(%s) = true", ex)
		}
	}
}

func TestBaseCode(t *testing.T) {
	cases := map[string]string{
		"0700.HK": "0700",
		"600519":  "600519",
		"BRK.B":   "BRK",
		"NVDA":    "NVDA",
	}
	for in, want := range cases {
		if got := BaseCode(in); got != want {
			t.Errorf("BaseCode(%q) = %q, want %q", in, got, want)
		}
	}
}
