package controller

import (
	"context"
	"net/http"
	"time"

	"stockbrief/config"
	"stockbrief/middleware"
	"stockbrief/model"
	"stockbrief/service"
	"stockbrief/validator"

	"github.com/Oudwins/zog"
	"github.com/danielgtaylor/huma/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
)

type StockController struct {
	stockSvc service.StockService
	cfg      *config.ConfigManager
}

func NewStockController(s service.StockService, cfg *config.ConfigManager) *StockController {
	return &StockController{stockSvc: s, cfg: cfg}
}

func (ctrl *StockController) RegisterRoutes(api huma.API) {
	adminMw := middleware.AdminKeyMiddleware(api, ctrl.cfg)

	huma.Register(api, huma.Operation{
		OperationID: "list-stocks",
		Method:      http.MethodGet,
		Path:        "/api/stocks",
		Summary:     "List Stored Stocks",
		Description: "Lists every ticker that has a stored analysis record",
		Middlewares: huma.Middlewares{adminMw},
		Security:    []map[string][]string{{"apiKey": {}}},
		Tags:        []string{"Stocks"},
	}, ctrl.listStocks)

	huma.Register(api, huma.Operation{
		OperationID: "get-stock",
		Method:      http.MethodGet,
		Path:        "/api/stocks/{ticker}",
		Summary:     "Get Stock Detail",
		Description: "Returns the stored identity and which sections are generated",
		Middlewares: huma.Middlewares{adminMw},
		Security:    []map[string][]string{{"apiKey": {}}},
		Tags:        []string{"Stocks"},
	}, ctrl.getStock)

	huma.Register(api, huma.Operation{
		OperationID: "update-stock",
		Method:      http.MethodPatch,
		Path:        "/api/stocks/{ticker}",
		Summary:     "Correct Stock Identity",
		Description: "Overrides name, chineseName or exchange when auto-resolution got it wrong",
		Middlewares: huma.Middlewares{adminMw},
		Security:    []map[string][]string{{"apiKey": {}}},
		Tags:        []string{"Stocks"},
	}, ctrl.updateStock)

	huma.Register(api, huma.Operation{
		OperationID: "delete-stock",
		Method:      http.MethodDelete,
		Path:        "/api/stocks/{ticker}",
		Summary:     "Delete Stored Stock",
		Description: "Drops the stored record and evicts every cache layer",
		Middlewares: huma.Middlewares{adminMw},
		Security:    []map[string][]string{{"apiKey": {}}},
		Tags:        []string{"Stocks"},
	}, ctrl.deleteStock)

	huma.Register(api, huma.Operation{
		OperationID: "reload-config",
		Method:      http.MethodPost,
		Path:        "/api/config/reload",
		Summary:     "Reload Configuration",
		Description: "Re-reads .env and swaps the active configuration atomically",
		Middlewares: huma.Middlewares{adminMw},
		Security:    []map[string][]string{{"apiKey": {}}},
		Tags:        []string{"System"},
	}, ctrl.reloadConfig)
}

func (ctrl *StockController) listStocks(ctx context.Context, input *struct{}) (*model.DefaultResponse, error) {
	ctxt, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stocks, err := ctrl.stockSvc.ListStocks(ctxt)
	if err != nil {
		return nil, huma.Error500InternalServerError("Unable to list stocks")
	}
	return NewResponse(stocks, "Stored stocks"), nil
}

func (ctrl *StockController) getStock(ctx context.Context, input *model.TickerInput) (*model.DefaultResponse, error) {
	ctxt, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	detail, err := ctrl.stockSvc.GetStock(ctxt, input.Ticker)
	if err != nil {
		return nil, mapStockErr(err, "Unable to load stock")
	}
	return NewResponse(detail, "Stock detail"), nil
}

func (ctrl *StockController) updateStock(ctx context.Context, input *model.UpdateStockInput) (*model.DefaultResponse, error) {
	var req model.UpdateStockRequest
	if err := mapstructure.Decode(input.Body, &req); err != nil {
		return nil, huma.Error400BadRequest("Invalid Request")
	}

	bodyValidation := zog.Struct(validator.UpdateStockShape).TestFunc(validator.AnyIdentityFieldTest)
	if err := bodyValidation.Validate(&req); err != nil {
		log.Warn().Interface("issues", err).Msg("Stock update rejected")
		return nil, huma.Error400BadRequest("Invalid Request")
	}

	ctxt, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	detail, err := ctrl.stockSvc.UpdateStock(ctxt, input.Ticker, req)
	if err != nil {
		return nil, mapStockErr(err, "Unable to update stock")
	}
	return NewResponse(detail, "Stock updated"), nil
}

func (ctrl *StockController) deleteStock(ctx context.Context, input *model.TickerInput) (*model.DefaultResponse, error) {
	ctxt, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := ctrl.stockSvc.DeleteStock(ctxt, input.Ticker); err != nil {
		return nil, mapStockErr(err, "Unable to delete stock")
	}
	return NewResponse(nil, "Stock deleted"), nil
}

func (ctrl *StockController) reloadConfig(ctx context.Context, input *struct{}) (*model.DefaultResponse, error) {
	cfg, err := config.Reload()
	if err != nil {
		return nil, huma.Error500InternalServerError("Reload failed: " + err.Error())
	}

	ctrl.cfg.UpdateConfig(cfg)
	log.Info().Msg("Configuration reloaded")
	return NewResponse(nil, "Configuration reloaded"), nil
}
