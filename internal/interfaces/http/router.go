package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC  *inventory.StockUseCase
	ReportUC *inventory.ReportUseCase
	Metrics  *metrics.Metrics // nil = sin /metrics ni métricas HTTP
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	stockHandler := NewStockHandler(deps.StockUC)
	api.Get("/categories", stockHandler.ListCategories)
	api.Get("/totals", stockHandler.Totals)
	api.Get("/log", stockHandler.AuditLog)
	api.Put("/margins/:category", stockHandler.SetMargin)

	stock := api.Group("/stock/:category")
	stock.Get("/", stockHandler.GetCategory)
	stock.Post("/lots", stockHandler.AddLot)
	stock.Put("/lots/:id", stockHandler.EditLot)
	stock.Delete("/lots/:id", stockHandler.RemoveLot)

	cashHandler := NewCashFlowHandler(deps.StockUC)
	api.Get("/cashflow", cashHandler.Get)
	api.Post("/cashflow", cashHandler.Register)

	if deps.ReportUC != nil {
		reportHandler := NewReportHandler(deps.ReportUC)
		api.Get("/reports/stock.pdf", reportHandler.StockPDF)
	}
}
