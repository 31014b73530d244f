package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okngoo/okngoo-deliveries/internal/app"
	"github.com/okngoo/okngoo-deliveries/internal/deliveries"
	"github.com/okngoo/okngoo-deliveries/internal/platform/cache"
	"github.com/okngoo/okngoo-deliveries/internal/platform/db"
	"github.com/okngoo/okngoo-deliveries/internal/reports"
	"github.com/okngoo/okngoo-deliveries/internal/reports/export"
	"github.com/okngoo/okngoo-deliveries/report"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	catalog := deliveries.DefaultCatalog()

	deliveryRepo := deliveries.NewRepository(dbpool)
	deliveryService := deliveries.NewService(deliveryRepo, catalog, logger)
	deliveryHandler := deliveries.NewHandler(logger, deliveryService)
	catalogHandler := deliveries.NewCatalogHandler(catalog)

	reportClient := report.NewClient(cfg.GotenbergURL)
	if err := reportClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}

	pdfExporter, err := export.NewPDFExporter(reportClient)
	if err != nil {
		logger.Error("build pdf exporter", slog.Any("error", err))
		os.Exit(1)
	}

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := reports.NewService(deliveryService, pdfExporter, reportCache)
	reportHandler := reports.NewHandler(logger, reportService, deliveryService)

	deliveryService.SetInvalidator(reportCache)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		DeliveriesHandler: deliveryHandler,
		CatalogHandler:    catalogHandler,
		ReportsHandler:    reportHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
