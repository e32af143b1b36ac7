package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockbrief/customerrors"
	"stockbrief/model"
	"stockbrief/util"
)

const infoFileName = "info.json"

// fileInfo is the on-disk identity record. Section bodies live next to it as
// one <section>.html file each, so a report stays readable outside the app.
type fileInfo struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	ChineseName string    `json:"chineseName,omitempty"`
	Exchange    string    `json:"exchange,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (f *fileInfo) toModel() *model.StockInfo {
	return &model.StockInfo{
		Ticker:      f.Ticker,
		Name:        f.Name,
		ChineseName: f.ChineseName,
		Exchange:    f.Exchange,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// FileStockStore keeps one directory per ticker under the cache root. Dots in
// tickers are mapped to underscores for the directory name.
type FileStockStore struct {
	root string
}

func NewFileStockStore(root string) (*FileStockStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", root, err)
	}
	return &FileStockStore{root: root}, nil
}

func (s *FileStockStore) dir(ticker string) string {
	return filepath.Join(s.root, util.SafeDirName(ticker))
}

func (s *FileStockStore) readInfo(ticker string) (*fileInfo, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir(ticker), infoFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var rec fileInfo
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s for %s: %w", infoFileName, ticker, err)
	}
	return &rec, nil
}

func (s *FileStockStore) writeInfo(dir string, rec fileInfo) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, infoFileName), raw, 0o644)
}

func (s *FileStockStore) Get(ctx context.Context, ticker string) (*model.StockInfo, error) {
	rec, err := s.readInfo(ticker)
	if err != nil || rec == nil {
		return nil, err
	}

	info := rec.toModel()
	for _, section := range model.AllSections() {
		body, err := os.ReadFile(filepath.Join(s.dir(ticker), string(section)+".html"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if len(body) == 0 {
			continue
		}
		if info.Sections == nil {
			info.Sections = make(map[model.Section]string)
		}
		info.Sections[section] = string(body)
	}
	return info, nil
}

func (s *FileStockStore) Save(ctx context.Context, info *model.StockInfo) error {
	dir := s.dir(info.Ticker)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	now := time.Now().UTC()
	rec := fileInfo{
		Ticker:      info.Ticker,
		Name:        info.Name,
		ChineseName: info.ChineseName,
		Exchange:    info.Exchange,
		CreatedAt:   info.CreatedAt,
		UpdatedAt:   now,
	}
	if rec.CreatedAt.IsZero() {
		if prev, err := s.readInfo(info.Ticker); err == nil && prev != nil {
			rec.CreatedAt = prev.CreatedAt
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	return s.writeInfo(dir, rec)
}

func (s *FileStockStore) UpdateSection(ctx context.Context, ticker string, section model.Section, body string) error {
	dir := s.dir(ticker)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, string(section)+".html"), []byte(body), 0o644); err != nil {
		return err
	}

	rec, err := s.readInfo(ticker)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if rec == nil {
		rec = &fileInfo{Ticker: ticker, CreatedAt: now}
	}
	rec.UpdatedAt = now
	return s.writeInfo(dir, *rec)
}

func (s *FileStockStore) Delete(ctx context.Context, ticker string) error {
	dir := s.dir(ticker)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return customerrors.ErrStockNotFound
		}
		return err
	}
	return os.RemoveAll(dir)
}

func (s *FileStockStore) List(ctx context.Context) ([]model.StockInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	infos := []model.StockInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.root, entry.Name(), infoFileName))
		if err != nil {
			continue // stray dir without a record
		}
		var rec fileInfo
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		infos = append(infos, *rec.toModel())
	}
	return infos, nil
}
