package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/analytics"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC     *inventory.LedgerUseCase
	ImportUC     *inventory.ImportUseCase
	OperationsUC *inventory.OperationsUseCase
	ProductUC    *inventory.ProductUseCase
	RiskUC       *analytics.RiskUseCase
	ForecastUC   *analytics.ForecastUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Ledger: registro manual y lecturas por producto
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	api.Post("/transactions", ledgerHandler.RegisterTransaction)

	products := api.Group("/products")
	products.Get("/:id/projection", ledgerHandler.GetProjection)
	products.Get("/:id/transactions", ledgerHandler.ListTransactions)
	products.Get("/:id/consumption-window", ledgerHandler.GetConsumptionWindow)

	// Catálogo (solo el borde que el ledger necesita)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Delete("/:id", productHandler.SoftDelete)

	// Importaciones masivas
	importHandler := NewImportHandler(deps.ImportUC)
	api.Post("/imports/:type", importHandler.ImportBatch)

	// Operaciones: inspección y reversión
	operations := api.Group("/operations")
	operationHandler := NewOperationHandler(deps.OperationsUC)
	operations.Get("/", operationHandler.List)
	operations.Get("/:id", operationHandler.GetByID)
	operations.Delete("/:id", operationHandler.Delete)
	operations.Delete("/", operationHandler.ClearAll)

	// Analítica de riesgo
	riskHandler := NewRiskHandler(deps.RiskUC)
	api.Get("/risks", riskHandler.List)
	products.Get("/:id/risk", riskHandler.GetByProduct)

	// Pronósticos de consumo
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	products.Post("/:id/forecasts", forecastHandler.Upsert)
	products.Get("/:id/forecasts", forecastHandler.List)
	products.Put("/:id/forecasts/actual", forecastHandler.RecordActual)
	products.Get("/:id/forecast-accuracy", forecastHandler.Accuracy)

	// Administración
	admin := api.Group("/admin")
	admin.Post("/recalculate", ledgerHandler.RecalculateAll)
}
