package controller

import (
	"embed"
	"html/template"
	"net/http"

	"stockbrief/config"
	"stockbrief/model"
	"stockbrief/service"
	"stockbrief/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/stock.html
var templateFS embed.FS

var stockPage = template.Must(template.ParseFS(templateFS, "templates/stock.html"))

// ignoredPaths are browser artifacts that would otherwise match /:ticker.
var ignoredPaths = map[string]struct{}{
	"favicon.ico":       {},
	"robots.txt":        {},
	"sitemap.xml":       {},
	"service-worker.js": {},
}

type PageController struct {
	stockSvc    service.StockService
	analysisSvc service.AnalysisService
	cfg         *config.ConfigManager
}

func NewPageController(stockSvc service.StockService, analysisSvc service.AnalysisService, cfg *config.ConfigManager) *PageController {
	return &PageController{
		stockSvc:    stockSvc,
		analysisSvc: analysisSvc,
		cfg:         cfg,
	}
}

// RegisterRoutes maps the page routes at the engine root. Static /api routes
// take precedence over the ticker parameter.
func (ctrl *PageController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", ctrl.home)
	router.GET("/:ticker", ctrl.stockPage)
}

func (ctrl *PageController) home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/"+ctrl.cfg.GetConfig().DefaultTicker)
}

type stockPageData struct {
	Ticker      string
	Name        string
	ChineseName string
	Exchange    string
	Sections    []model.SectionName
	Stored      map[string]bool
}

// stockPage renders the thin shell for one ticker: identity best-effort plus
// the section list with stored/unstored markers. Non-canonical ticker forms
// redirect permanently to the normalized URL.
func (ctrl *PageController) stockPage(c *gin.Context) {
	raw := c.Param("ticker")
	if _, skip := ignoredPaths[raw]; skip {
		c.Status(http.StatusNotFound)
		return
	}

	ticker := util.NormalizeTicker(raw)
	if ticker == "" {
		c.Status(http.StatusNotFound)
		return
	}
	if ticker != raw {
		c.Redirect(http.StatusMovedPermanently, "/"+ticker)
		return
	}

	data := stockPageData{
		Ticker:   ticker,
		Sections: ctrl.analysisSvc.SectionNames(),
		Stored:   map[string]bool{},
	}
	if detail, err := ctrl.stockSvc.GetStock(c.Request.Context(), ticker); err == nil {
		data.Name = detail.Name
		data.ChineseName = detail.ChineseName
		data.Exchange = detail.Exchange
		for _, key := range detail.Sections {
			data.Stored[key] = true
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := stockPage.Execute(c.Writer, data); err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("Failed to render stock page")
	}
}
