package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annam-erp/annam-erp/internal/app"
	"github.com/annam-erp/annam-erp/internal/coa"
	"github.com/annam-erp/annam-erp/internal/debt"
	"github.com/annam-erp/annam-erp/internal/documents"
	"github.com/annam-erp/annam-erp/internal/inventory"
	"github.com/annam-erp/annam-erp/internal/ledger"
	"github.com/annam-erp/annam-erp/internal/parties"
	"github.com/annam-erp/annam-erp/internal/platform/cache"
	"github.com/annam-erp/annam-erp/internal/platform/db"
	"github.com/annam-erp/annam-erp/internal/products"
	"github.com/annam-erp/annam-erp/internal/reports"
	"github.com/annam-erp/annam-erp/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, document codes fall back to timestamps", slog.Any("error", err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	audit := shared.NewAuditLogger(pool)
	seq := shared.NewSequenceAllocator(redisClient)

	journalEngine := ledger.NewEngine()
	inventoryEngine := inventory.NewEngine(inventory.Config{AllowNegativeStock: cfg.AllowNegativeStock})
	debtLedger := debt.NewLedger()

	coaService := coa.NewService(coa.NewRepository(pool), audit)
	ledgerService := ledger.NewService(ledger.NewRepository(pool), journalEngine, audit)
	inventoryService := inventory.NewService(inventory.NewRepository(pool), inventoryEngine, audit)
	debtRepo := debt.NewRepository(pool)
	documentService := documents.NewService(documents.NewRepository(pool), journalEngine, inventoryEngine, debtLedger, seq, audit)
	reportService := reports.NewService(reports.NewRepository(pool), cfg.DefaultLocale)
	partyService := parties.NewService(parties.NewRepository(pool), audit)
	productService := products.NewService(products.NewRepository(pool), audit)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AccountHandler:   coa.NewHandler(logger, coaService),
		LedgerHandler:    ledger.NewHandler(logger, ledgerService),
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		DebtHandler:      debt.NewHandler(logger, debtRepo),
		DocumentHandler:  documents.NewHandler(logger, documentService),
		ReportHandler:    reports.NewHandler(logger, reportService),
		PartyHandler:     parties.NewHandler(logger, partyService),
		ProductHandler:   products.NewHandler(logger, productService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}
