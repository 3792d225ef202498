package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/stock-ledger/internal/application/analytics"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos de lectura sobre el pool; las escrituras van siempre vía TxRunner.
	txRepo := postgres.NewTransactionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	opRepo := postgres.NewOperationRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, txRepo, productRepo, log.Component("ledger"), cfg.Ledger.AvgWindowMonths)
	importUC := inventory.NewImportUseCase(txRunner, productRepo, log.Component("import"), cfg.Ledger.AvgWindowMonths, cfg.Ledger.ImportChunkSize)
	operationsUC := inventory.NewOperationsUseCase(txRunner, opRepo, log.Component("operations"), cfg.Ledger.AvgWindowMonths)
	productUC := inventory.NewProductUseCase(txRunner, productRepo, log.Component("products"))
	riskUC := analytics.NewRiskUseCase(productRepo)
	forecastUC := analytics.NewForecastUseCase(forecastRepo, productRepo, log.Component("forecasts"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:     ledgerUC,
		ImportUC:     importUC,
		OperationsUC: operationsUC,
		ProductUC:    productUC,
		RiskUC:       riskUC,
		ForecastUC:   forecastUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
