package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/persistence"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/analytics"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/batch"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/transfer"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/handler"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/routes"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/clock"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/database"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/logger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository/memory"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/config"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == "production")
	appLogger.SetLevel(logger.ParseLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	// Inconsistent credit rules must never make it past startup
	creditRules, err := cfg.CreditRules.Build()
	if err != nil {
		appLogger.Error("Failed to parse credit rules", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	engine, err := rules.NewEngine(creditRules)
	if err != nil {
		appLogger.Error("Invalid credit rules configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	timeProvider := clock.NewRealClock()
	metrics.Init()

	uow, balanceRepo, transactionRepo, checker, cleanup, err := buildPersistence(cfg, appLogger, timeProvider)
	if err != nil {
		appLogger.Error("Failed to initialize persistence", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer cleanup()

	ledgerService := ledger.NewService(uow, engine, timeProvider, appLogger).
		WithMaxAttempts(cfg.Ledger.MaxRetries)
	transferCoordinator := transfer.NewCoordinator(uow, engine, timeProvider, appLogger)
	batchProcessor := batch.NewProcessor(ledgerService, appLogger)
	aggregator := analytics.NewAggregator(balanceRepo, transactionRepo, appLogger)

	ledgerHandler := handler.NewLedgerHandler(ledgerService, appLogger)
	transferHandler := handler.NewTransferHandler(transferCoordinator, appLogger)
	batchHandler := handler.NewBatchHandler(batchProcessor, appLogger)
	analyticsHandler := handler.NewAnalyticsHandler(aggregator, appLogger)
	healthHandler := handler.NewHealthHandler(checker)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, ledgerHandler, transferHandler, batchHandler, analyticsHandler, healthHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting HTTP server", map[string]any{
			"addr":        server.Addr,
			"environment": cfg.Environment,
			"database":    cfg.Database.Driver,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}
	appLogger.Info("Server stopped", nil)
}

// buildPersistence wires the configured storage driver. The in-process store
// serves local runs and tests; everything else goes through postgres.
func buildPersistence(
	cfg *config.Config,
	appLogger coreport.Logger,
	timeProvider coreport.TimeProvider,
) (persistence.UnitOfWork, persistence.BalanceRepository, persistence.TransactionRepository, handler.HealthChecker, func(), error) {
	if cfg.Database.Driver == "memory" {
		store := memory.NewStore(timeProvider)
		balanceRepo := memory.NewBalanceRepository(store)
		transactionRepo := memory.NewTransactionRepository(store)
		uow := memory.NewUnitOfWork(store, balanceRepo, transactionRepo)
		return uow, balanceRepo, transactionRepo, nil, func() {}, nil
	}

	conn, err := database.NewConnection(&cfg.Database, appLogger)
	if err != nil {
		return nil, nil, nil, nil, func() {}, err
	}
	if err := database.Migrate(conn.DB, appLogger); err != nil {
		_ = conn.Close()
		return nil, nil, nil, nil, func() {}, err
	}

	balanceRepo := repository.NewBalanceRepository(conn.DB, timeProvider, appLogger)
	transactionRepo := repository.NewTransactionRepository(conn.DB, appLogger)
	uow := database.NewUnitOfWork(conn.DB, balanceRepo, transactionRepo, appLogger)
	cleanup := func() { _ = conn.Close() }
	return uow, balanceRepo, transactionRepo, conn, cleanup, nil
}
