package controller

import (
	"context"
	"net/http"
	"time"

	"stockbrief/model"
	"stockbrief/service"
	"stockbrief/validator"

	"github.com/Oudwins/zog"
	"github.com/gin-gonic/gin"
)

// generateTimeout caps one analyze call end to end, including model retries.
const generateTimeout = 3 * time.Minute

type AnalyzeController struct {
	analysisSvc service.AnalysisService
}

func NewAnalyzeController(s service.AnalysisService) *AnalyzeController {
	return &AnalyzeController{analysisSvc: s}
}

// RegisterRoutes maps endpoints to the /api group
func (ctrl *AnalyzeController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sections", ctrl.listSections)
	router.POST("/analyze/:section", ctrl.analyzeSection)
}

func (ctrl *AnalyzeController) listSections(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.analysisSvc.SectionNames())
}

// analyzeSection always answers 200 with the result envelope; failures are
// carried in the error field so clients separate remote failures from
// transport ones by parseability.
func (ctrl *AnalyzeController) analyzeSection(c *gin.Context) {
	section, err := model.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusOK, model.AnalyzeResponse{Error: err.Error()})
		return
	}

	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, model.AnalyzeResponse{Error: "Invalid request body"})
		return
	}

	bodyValidation := zog.Struct(validator.TickerShape)
	if err := bodyValidation.Validate(&req); err != nil {
		c.JSON(http.StatusOK, model.AnalyzeResponse{Error: "Ticker is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generateTimeout)
	defer cancel()

	report, fromCache, err := ctrl.analysisSvc.Analyze(ctx, req.Ticker, section, req.ForceUpdate)
	if err != nil {
		c.JSON(http.StatusOK, model.AnalyzeResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.AnalyzeResponse{
		Success:   true,
		Report:    report,
		FromCache: fromCache,
	})
}
