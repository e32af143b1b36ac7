package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	sys, err := LoadConfigs()
	require.NoError(t, err)

	cfg := sys.Config
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "NVDA", cfg.DefaultTicker)
	assert.Equal(t, 15, cfg.ReportCacheTTLMin)
	assert.True(t, cfg.RateLimiter)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigsRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfigs()
	require.Error(t, err)
}

func TestLoadConfigsValidatesBackend(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := LoadConfigs()
	require.Error(t, err)

	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "")
	_, err = LoadConfigs()
	require.Error(t, err, "mongo backend without URI must fail")

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	sys, err := LoadConfigs()
	require.NoError(t, err)
	assert.Equal(t, "stockbrief", sys.Config.MongoDb)
}

func TestLoadConfigsFrontendUrls(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("FRONTEND_URLS", "http://localhost:3000, https://brief.example.com ,")

	sys, err := LoadConfigs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "https://brief.example.com"}, sys.Config.FrontendUrls)
}

func TestConfigManagerSwap(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	sys, err := LoadConfigs()
	require.NoError(t, err)

	cm := NewConfigManager(sys.Config)
	assert.Equal(t, "8080", cm.GetConfig().Port)

	next := *sys.Config
	next.Port = "9090"
	cm.UpdateConfig(&next)
	assert.Equal(t, "9090", cm.GetConfig().Port)
}
