package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	localCache "stockbrief/cache"
	"stockbrief/customerrors"
	"stockbrief/database"
	"stockbrief/model"
	"stockbrief/util"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// SymbolSearcher is the slice of the market-data client the lookup needs.
type SymbolSearcher interface {
	SearchSymbol(ctx context.Context, query string) ([]model.SymbolMatch, error)
}

// ShortGenerator produces short free-text completions, used to fill in the
// Chinese company name for non-US listings.
type ShortGenerator interface {
	GenerateShort(ctx context.Context, prompt string) (string, error)
}

type LookupService interface {
	Resolve(ctx context.Context, ticker string) (*model.StockInfo, error)
}

type LookupServiceImpl struct {
	codes  util.CodeTable
	search SymbolSearcher
	namer  ShortGenerator
}

// NewLookupService resolves normalized tickers to a stock identity. codes may
// be nil (no local table), search may be nil (no FMP key configured).
func NewLookupService(codes util.CodeTable, search SymbolSearcher, namer ShortGenerator) LookupService {
	return &LookupServiceImpl{
		codes:  codes,
		search: search,
		namer:  namer,
	}
}

func (s *LookupServiceImpl) Resolve(ctx context.Context, ticker string) (*model.StockInfo, error) {
	if cached, found := localCache.NameCache.Get(ticker); found {
		info := cached.(model.StockInfo)
		return &info, nil
	}

	if database.Enabled() {
		var info model.StockInfo
		if found, err := database.RedisHelper.GetAsStruct(localCache.IdentityKey(ticker), &info); err == nil && found {
			localCache.NameCache.Set(ticker, info, cache.DefaultExpiration)
			return &info, nil
		}
	}

	info, err := s.resolve(ctx, ticker)
	if err != nil {
		return nil, err
	}

	localCache.NameCache.Set(ticker, *info, cache.DefaultExpiration)
	if database.Enabled() {
		_ = database.RedisHelper.SetStruct(localCache.IdentityKey(ticker), info, 12*time.Hour)
	}
	return info, nil
}

func (s *LookupServiceImpl) resolve(ctx context.Context, ticker string) (*model.StockInfo, error) {
	if entry, ok := s.codes.Lookup(ticker); ok {
		return &model.StockInfo{
			Ticker:      ticker,
			Name:        entry.Name,
			ChineseName: entry.ChineseName,
			Exchange:    entry.Exchange,
		}, nil
	}

	if s.search == nil {
		return nil, customerrors.ErrTickerNotFound
	}

	matches, err := s.search.SearchSymbol(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("symbol search: %w", err)
	}

	match := bestMatch(matches, ticker)
	if match == nil {
		return nil, customerrors.ErrTickerNotFound
	}

	info := &model.StockInfo{
		Ticker:   ticker,
		Name:     match.Name,
		Exchange: match.Exchange,
	}

	if !util.IsUSExchange(match.Exchange) {
		info.ChineseName = s.chineseName(ctx, info)
	}
	return info, nil
}

// bestMatch picks a search result for the query: an exact symbol match wins,
// otherwise prefix matches on the base code, preferring mainland listings
// (SHH/SHZ) when the same code trades on several venues.
func bestMatch(matches []model.SymbolMatch, ticker string) *model.SymbolMatch {
	for i := range matches {
		if strings.EqualFold(matches[i].Symbol, ticker) {
			return &matches[i]
		}
	}

	base := util.BaseCode(ticker)
	var prefix []*model.SymbolMatch
	for i := range matches {
		if strings.HasPrefix(strings.ToUpper(matches[i].Symbol), base) {
			prefix = append(prefix, &matches[i])
		}
	}
	if len(prefix) == 0 {
		return nil
	}
	for _, m := range prefix {
		if m.Exchange == "SHH" || m.Exchange == "SHZ" {
			return m
		}
	}
	return prefix[0]
}

// chineseName asks the model for the official Chinese name. Failures are
// non-fatal; the report is simply generated without one.
func (s *LookupServiceImpl) chineseName(ctx context.Context, info *model.StockInfo) string {
	if s.namer == nil {
		return ""
	}

	prompt := fmt.Sprintf(
		"What is the official Chinese name of the company %q with stock ticker %s on %s? Reply with the Chinese name only, nothing else. If you are not sure, reply NONE.",
		info.Name, info.Ticker, info.Exchange,
	)

	answer, err := s.namer.GenerateShort(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("ticker", info.Ticker).Msg("Chinese name lookup failed")
		return ""
	}

	answer = strings.Trim(strings.TrimSpace(answer), `"“”`)
	if answer == "" || strings.EqualFold(answer, "NONE") || utf8.RuneCountInString(answer) > 40 {
		return ""
	}
	return answer
}
