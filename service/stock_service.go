package service

import (
	"context"

	localCache "stockbrief/cache"
	"stockbrief/customerrors"
	"stockbrief/database"
	"stockbrief/model"
	"stockbrief/repository"
	"stockbrief/util"

	"github.com/jinzhu/copier"
)

type StockService interface {
	ListStocks(ctx context.Context) ([]model.StockSummary, error)
	GetStock(ctx context.Context, ticker string) (*model.StockDetail, error)
	UpdateStock(ctx context.Context, ticker string, req model.UpdateStockRequest) (*model.StockDetail, error)
	DeleteStock(ctx context.Context, ticker string) error
}

type StockServiceImpl struct {
	store repository.StockStore
}

func NewStockService(store repository.StockStore) StockService {
	return &StockServiceImpl{store: store}
}

func (s *StockServiceImpl) ListStocks(ctx context.Context) ([]model.StockSummary, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.StockSummary, 0, len(infos))
	for i := range infos {
		var summary model.StockSummary
		copier.Copy(&summary, &infos[i])
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *StockServiceImpl) GetStock(ctx context.Context, ticker string) (*model.StockDetail, error) {
	info, err := s.store.Get(ctx, util.NormalizeTicker(ticker))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, customerrors.ErrStockNotFound
	}
	return toDetail(info), nil
}

func (s *StockServiceImpl) UpdateStock(ctx context.Context, ticker string, req model.UpdateStockRequest) (*model.StockDetail, error) {
	ticker = util.NormalizeTicker(ticker)
	info, err := s.store.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, customerrors.ErrStockNotFound
	}

	if req.Name != "" {
		info.Name = req.Name
	}
	if req.ChineseName != "" {
		info.ChineseName = req.ChineseName
	}
	if req.Exchange != "" {
		info.Exchange = req.Exchange
	}

	if err := s.store.Save(ctx, info); err != nil {
		return nil, err
	}

	// The cached resolution is stale after an identity correction.
	localCache.NameCache.Delete(ticker)
	if database.Enabled() {
		_ = database.RedisHelper.Delete(localCache.IdentityKey(ticker))
	}

	return s.GetStock(ctx, ticker)
}

func (s *StockServiceImpl) DeleteStock(ctx context.Context, ticker string) error {
	ticker = util.NormalizeTicker(ticker)
	if err := s.store.Delete(ctx, ticker); err != nil {
		return err
	}

	sections := make([]string, 0, len(model.AllSections()))
	for _, sec := range model.AllSections() {
		sections = append(sections, sec.String())
	}

	localCache.DropTicker(ticker, sections)
	if database.Enabled() {
		_ = database.RedisHelper.Delete(localCache.IdentityKey(ticker))
		for _, sec := range sections {
			_ = database.RedisHelper.Delete(localCache.ReportKey(ticker, sec))
		}
	}
	return nil
}

func toDetail(info *model.StockInfo) *model.StockDetail {
	var detail model.StockDetail
	copier.Copy(&detail.StockSummary, info)
	detail.CreatedAt = info.CreatedAt

	detail.Sections = []string{}
	for _, section := range model.AllSections() {
		if _, ok := info.Section(section); ok {
			detail.Sections = append(detail.Sections, section.String())
		}
	}
	return &detail
}
