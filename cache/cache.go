package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ReportCache holds rendered section HTML keyed "ticker:section". TTL is
// overridden per entry from config; the default here is a fallback.
var ReportCache = cache.New(15*time.Minute, 30*time.Minute)

// NameCache holds resolved stock identities keyed by normalized ticker, so
// repeated section fetches for one ticker don't re-query FMP or the model.
var NameCache = cache.New(12*time.Hour, 1*time.Hour)

// RateLimiterCache holds per-IP token buckets for the analyze endpoint.
var RateLimiterCache = cache.New(10*time.Minute, 15*time.Minute)

// ReportKey builds the ReportCache key for a ticker and section.
func ReportKey(ticker, section string) string {
	return ticker + ":" + section
}

// IdentityKey builds the shared-cache key for a resolved stock identity.
func IdentityKey(ticker string) string {
	return "identity:" + ticker
}

// DropTicker evicts every cached entry for a ticker, used after admin
// deletes or identity corrections.
func DropTicker(ticker string, sections []string) {
	NameCache.Delete(ticker)
	for _, s := range sections {
		ReportCache.Delete(ReportKey(ticker, s))
	}
}
