package routes

import (
	"stockbrief/client"
	"stockbrief/config"
	"stockbrief/controller"
	"stockbrief/middleware"
	"stockbrief/prompts"
	"stockbrief/repository"
	"stockbrief/service"
	"stockbrief/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/gin-gonic/gin"
)

// Deps carries the process-level dependencies main resolves before wiring.
type Deps struct {
	Store   repository.StockStore
	Prompts *prompts.Manager
	Gemini  *client.GeminiClient
	Codes   util.CodeTable
	CfgMgr  *config.ConfigManager
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ZerologMiddleware())
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.CORS(deps.CfgMgr))

	cfg := deps.CfgMgr.GetConfig()

	// --- 1. Clients ---
	// The symbol searcher stays nil without an FMP key; lookups then rely on
	// the local code table alone.
	var searcher service.SymbolSearcher
	if cfg.FmpApiKey != "" {
		searcher = client.NewFmpClient(cfg.FmpApiKey, "")
	}

	// --- 2. Services (Dependency Injection) ---
	lookupSvc := service.NewLookupService(deps.Codes, searcher, deps.Gemini)
	analysisSvc := service.NewAnalysisService(deps.Store, lookupSvc, deps.Prompts, deps.Gemini, deps.CfgMgr)
	stockSvc := service.NewStockService(deps.Store)

	// --- 3. Routes & Controllers ---
	api := r.Group("/api")
	{
		// Health Check
		controller.NewHealthController().RegisterRoutes(api)

		// Analyze Endpoints (rate limited)
		analyzeGroup := api.Group("")
		analyzeGroup.Use(middleware.RateLimiter(deps.CfgMgr))
		controller.NewAnalyzeController(analysisSvc).RegisterRoutes(analyzeGroup)
	}

	// Admin endpoints go through Huma so they are schema-checked and
	// self-documented under /docs.
	humaAPI := humagin.New(r, huma.DefaultConfig("stockbrief", "1.0.0"))
	controller.NewStockController(stockSvc, deps.CfgMgr).RegisterRoutes(humaAPI)

	// Pages last: the static routes above win over the ticker parameter.
	controller.NewPageController(stockSvc, analysisSvc, deps.CfgMgr).RegisterRoutes(r)

	return r
}
