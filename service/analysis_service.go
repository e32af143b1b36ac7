package service

import (
	"context"
	"time"

	localCache "stockbrief/cache"
	"stockbrief/config"
	"stockbrief/database"
	"stockbrief/model"
	"stockbrief/prompts"
	"stockbrief/repository"
	"stockbrief/util"

	"github.com/rs/zerolog/log"
)

// ReportGenerator is the slice of the model client the pipeline needs.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, systemRole, prompt string) (string, error)
}

type AnalysisService interface {
	// Analyze returns the section report HTML for a ticker. fromCache is true
	// when the report came from any server-side layer instead of a fresh
	// generation.
	Analyze(ctx context.Context, rawTicker string, section model.Section, force bool) (report string, fromCache bool, err error)
	SectionNames() []model.SectionName
}

type AnalysisServiceImpl struct {
	store     repository.StockStore
	lookup    LookupService
	prompts   *prompts.Manager
	generator ReportGenerator
	cfg       *config.ConfigManager
}

func NewAnalysisService(
	store repository.StockStore,
	lookup LookupService,
	manager *prompts.Manager,
	generator ReportGenerator,
	cfg *config.ConfigManager,
) AnalysisService {
	return &AnalysisServiceImpl{
		store:     store,
		lookup:    lookup,
		prompts:   manager,
		generator: generator,
		cfg:       cfg,
	}
}

func (s *AnalysisServiceImpl) SectionNames() []model.SectionName {
	return s.prompts.SectionNames()
}

func (s *AnalysisServiceImpl) Analyze(ctx context.Context, rawTicker string, section model.Section, force bool) (string, bool, error) {
	ticker := util.NormalizeTicker(rawTicker)
	key := localCache.ReportKey(ticker, section.String())

	if !force {
		if report, ok := s.cachedReport(ctx, ticker, section, key); ok {
			return report, true, nil
		}
	}

	info, err := s.lookup.Resolve(ctx, ticker)
	if err != nil {
		return "", false, err
	}

	rendered, err := s.prompts.Render(section, info.Exchange, map[string]string{
		"ticker":       ticker,
		"company_name": info.DisplayName(),
		"exchange":     info.Exchange,
	})
	if err != nil {
		return "", false, err
	}

	markdown, err := s.generator.GenerateReport(ctx, rendered.SystemRole, rendered.Prompt)
	if err != nil {
		return "", false, err
	}

	report, err := util.RenderMarkdown(markdown)
	if err != nil {
		return "", false, err
	}

	// Persistence failures degrade durability, not the response.
	if err := s.store.Save(ctx, info); err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("Failed to save stock identity")
	}
	if err := s.store.UpdateSection(ctx, ticker, section, report); err != nil {
		log.Error().Err(err).Str("ticker", ticker).Str("section", section.String()).Msg("Failed to save section report")
	}

	s.cacheReport(key, report)

	log.Info().
		Str("ticker", ticker).
		Str("section", section.String()).
		Bool("force", force).
		Msg("Generated section report")

	return report, false, nil
}

// cachedReport walks the read path: in-process cache, then the optional
// shared redis layer, then the store.
func (s *AnalysisServiceImpl) cachedReport(ctx context.Context, ticker string, section model.Section, key string) (string, bool) {
	if cached, found := localCache.ReportCache.Get(key); found {
		return cached.(string), true
	}

	if database.Enabled() {
		if report, err := database.RedisHelper.Get(key); err == nil && report != "" {
			localCache.ReportCache.Set(key, report, s.cacheTTL())
			return report, true
		}
	}

	info, err := s.store.Get(ctx, ticker)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("Store read failed, regenerating")
		return "", false
	}
	if report, ok := info.Section(section); ok {
		s.cacheReport(key, report)
		return report, true
	}
	return "", false
}

func (s *AnalysisServiceImpl) cacheReport(key, report string) {
	ttl := s.cacheTTL()
	localCache.ReportCache.Set(key, report, ttl)
	if database.Enabled() {
		_ = database.RedisHelper.Set(key, report, ttl)
	}
}

func (s *AnalysisServiceImpl) cacheTTL() time.Duration {
	return time.Duration(s.cfg.GetConfig().ReportCacheTTLMin) * time.Minute
}
