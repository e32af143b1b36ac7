package main

import (
	"context"
	"runtime"

	"stockbrief/client"
	"stockbrief/config"
	"stockbrief/database"
	"stockbrief/prompts"
	"stockbrief/repository"
	"stockbrief/routes"
	"stockbrief/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	sysConfigs, err := config.LoadConfigs()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	cfg := sysConfigs.Config

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store repository.StockStore
	switch cfg.StoreBackend {
	case "mongo":
		_, db := database.InitMongoClient(sysConfigs)
		store = repository.NewMongoStockStore(db)
	default:
		fileStore, err := repository.NewFileStockStore(cfg.CacheDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening file store")
		}
		store = fileStore
	}

	if cfg.RedisUrl != "" {
		database.InitRedis(cfg.RedisUrl)
	}

	promptMgr, err := prompts.NewManager(cfg.PromptsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading prompt templates")
	}

	codes, err := util.LoadStockCodes(cfg.StockCodeDir)
	if err != nil {
		log.Warn().Err(err).Msg("Stock code table not loaded")
	}

	gemini, err := client.NewGeminiClient(context.Background(), cfg.GeminiApiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating Gemini client")
	}

	router := routes.SetupRouter(routes.Deps{
		Store:   store,
		Prompts: promptMgr,
		Gemini:  gemini,
		Codes:   codes,
		CfgMgr:  config.NewConfigManager(cfg),
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Str("store", cfg.StoreBackend).Msg("Server starting")
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.With().Logger()
}
