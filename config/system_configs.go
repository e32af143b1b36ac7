package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"stockbrief/model"

	"github.com/joho/godotenv"
)

type SystemConfigs struct {
	Config *model.EnvConfig
}

// LoadConfigs reads .env (if present) and the process environment into an
// EnvConfig. Only the Gemini key is hard-required; everything else has a
// workable default for local use.
func LoadConfigs() (*SystemConfigs, error) {
	godotenv.Load()

	cfg, err := readEnv()
	if err != nil {
		return nil, err
	}
	return &SystemConfigs{Config: cfg}, nil
}

// Reload re-reads .env over the current environment and returns a fresh
// EnvConfig for the ConfigManager to swap in.
func Reload() (*model.EnvConfig, error) {
	godotenv.Overload()
	return readEnv()
}

func readEnv() (*model.EnvConfig, error) {
	cfg := &model.EnvConfig{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		GeminiApiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		FmpApiKey:         os.Getenv("FMP_API_KEY"),
		StoreBackend:      getEnv("STORE_BACKEND", "file"),
		CacheDir:          getEnv("CACHE_DIR", "cache_data"),
		MongoUri:          os.Getenv("MONGO_URI"),
		MongoDb:           getEnv("MONGO_DB", "stockbrief"),
		RedisUrl:          os.Getenv("REDIS_URL"),
		PromptsFile:       getEnv("PROMPTS_FILE", "prompts/prompts.yaml"),
		StockCodeDir:      os.Getenv("STOCK_CODE_DIR"),
		DefaultTicker:     getEnv("DEFAULT_TICKER", "NVDA"),
		AdminApiKey:       os.Getenv("ADMIN_API_KEY"),
		RateLimiter:       getEnv("RATE_LIMITER", "true") == "true",
		ReportCacheTTLMin: getEnvInt("REPORT_CACHE_TTL_MIN", 15),
	}

	if urls := os.Getenv("FRONTEND_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.FrontendUrls = append(cfg.FrontendUrls, u)
			}
		}
	}

	if cfg.GeminiApiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.StoreBackend != "file" && cfg.StoreBackend != "mongo" {
		return nil, fmt.Errorf("STORE_BACKEND must be 'file' or 'mongo', got %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == "mongo" && cfg.MongoUri == "" {
		return nil, fmt.Errorf("STORE_BACKEND=mongo requires MONGO_URI")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// ConfigManager hands out the active EnvConfig and lets the admin reload
// endpoint swap it without restarting. Readers never see a partial config.
type ConfigManager struct {
	value atomic.Value
}

func NewConfigManager(initial *model.EnvConfig) *ConfigManager {
	cm := &ConfigManager{}
	cm.value.Store(initial)
	return cm
}

func (cm *ConfigManager) GetConfig() *model.EnvConfig {
	return cm.value.Load().(*model.EnvConfig)
}

func (cm *ConfigManager) UpdateConfig(newCfg *model.EnvConfig) {
	cm.value.Store(newCfg)
}
