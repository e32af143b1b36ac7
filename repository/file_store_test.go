package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stockbrief/customerrors"
	"stockbrief/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStockStore {
	t.Helper()
	store, err := NewFileStockStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	info := &model.StockInfo{
		Ticker:      "0700.HK",
		Name:        "Tencent Holdings Limited",
		ChineseName: "腾讯控股",
		Exchange:    "HKEX",
	}
	require.NoError(t, store.Save(ctx, info))
	require.NoError(t, store.UpdateSection(ctx, "0700.HK", model.SectionFinance, "<p>Solid margins</p>"))

	// Dots in the ticker must not create nested directories.
	_, err := os.Stat(filepath.Join(store.root, "0700_HK", "finance.html"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "0700.HK")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tencent Holdings Limited", got.Name)
	assert.Equal(t, "腾讯控股", got.ChineseName)
	assert.False(t, got.CreatedAt.IsZero())

	body, ok := got.Section(model.SectionFinance)
	require.True(t, ok)
	assert.Equal(t, "<p>Solid margins</p>", body)

	_, ok = got.Section(model.SectionBusiness)
	assert.False(t, ok)
}

func TestFileStoreResaveKeepsSectionsAndCreatedAt(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.StockInfo{Ticker: "NVDA", Name: "NVIDIA"}))
	require.NoError(t, store.UpdateSection(ctx, "NVDA", model.SectionBusiness, "<p>GPUs</p>"))

	first, err := store.Get(ctx, "NVDA")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, &model.StockInfo{Ticker: "NVDA", Name: "NVIDIA Corporation"}))

	got, err := store.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", got.Name)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)

	body, ok := got.Section(model.SectionBusiness)
	require.True(t, ok)
	assert.Equal(t, "<p>GPUs</p>", body)
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newFileStore(t)

	got, err := store.Get(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStoreDelete(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.StockInfo{Ticker: "NVDA", Name: "NVIDIA"}))
	require.NoError(t, store.Delete(ctx, "NVDA"))

	got, err := store.Get(ctx, "NVDA")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, store.Delete(ctx, "NVDA"), customerrors.ErrStockNotFound)
}

func TestFileStoreList(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.StockInfo{Ticker: "NVDA", Name: "NVIDIA"}))
	require.NoError(t, store.Save(ctx, &model.StockInfo{Ticker: "0700.HK", Name: "Tencent"}))
	// A stray file at the root must not break listing.
	require.NoError(t, os.WriteFile(filepath.Join(store.root, "notes.txt"), []byte("x"), 0o644))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	tickers := []string{infos[0].Ticker, infos[1].Ticker}
	assert.ElementsMatch(t, []string{"NVDA", "0700.HK"}, tickers)
}
