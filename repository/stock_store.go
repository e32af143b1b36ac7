package repository

import (
	"context"

	"stockbrief/model"
)

// StockStore is the persistence boundary for resolved stocks and their
// generated section reports. Get returns (nil, nil) when the ticker has no
// record. Save upserts identity fields only; section bodies are written
// through UpdateSection so a re-resolve never wipes stored reports.
type StockStore interface {
	Get(ctx context.Context, ticker string) (*model.StockInfo, error)
	Save(ctx context.Context, info *model.StockInfo) error
	UpdateSection(ctx context.Context, ticker string, section model.Section, body string) error
	Delete(ctx context.Context, ticker string) error
	List(ctx context.Context) ([]model.StockInfo, error)
}
