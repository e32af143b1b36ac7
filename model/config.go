package model

// EnvConfig holds the settings read from the environment / .env file.
// It is swapped atomically on admin reload, so treat instances as immutable.
type EnvConfig struct {
	Port        string `json:"port"`
	Environment string `json:"environment"`

	GeminiApiKey string `json:"-"`
	GeminiModel  string `json:"geminiModel"`
	FmpApiKey    string `json:"-"`

	StoreBackend string `json:"storeBackend"`
	CacheDir     string `json:"cacheDir"`
	MongoUri     string `json:"-"`
	MongoDb      string `json:"mongoDb"`
	RedisUrl     string `json:"-"`

	PromptsFile   string `json:"promptsFile"`
	StockCodeDir  string `json:"stockCodeDir"`
	DefaultTicker string `json:"defaultTicker"`

	AdminApiKey  string   `json:"-"`
	RateLimiter  bool     `json:"rateLimiter"`
	FrontendUrls []string `json:"frontendUrls"`

	ReportCacheTTLMin int `json:"reportCacheTtlMin"`
}

func (c *EnvConfig) IsProduction() bool {
	return c.Environment == "production"
}
