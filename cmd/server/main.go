package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/config"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	"github.com/sidomulyo-dev/gaduh/internal/repository/sheets"
	"github.com/sidomulyo-dev/gaduh/internal/scheduler"
	"github.com/sidomulyo-dev/gaduh/internal/server/handlers"
	"github.com/sidomulyo-dev/gaduh/internal/server/router"
	exportsvc "github.com/sidomulyo-dev/gaduh/internal/service/export"
	laporansvc "github.com/sidomulyo-dev/gaduh/internal/service/laporan"
	peternaksvc "github.com/sidomulyo-dev/gaduh/internal/service/peternak"
	"github.com/sidomulyo-dev/gaduh/pkg/clients/notify"
	"github.com/sidomulyo-dev/gaduh/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	peternakRepo := mongodb.NewPeternakRepository(store, baseLogger.Named("repo.peternak"))
	laporanRepo := mongodb.NewLaporanRepository(store, baseLogger.Named("repo.laporan"))

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify)
		baseLogger.Info("cycle completion webhook enabled")
	}

	peternakService := peternaksvc.NewService(peternakRepo, laporanRepo, baseLogger.Named("svc.peternak"))
	laporanService := laporansvc.NewService(peternakRepo, laporanRepo, notifier, baseLogger.Named("svc.laporan"))

	peternakHandler := handlers.NewPeternakHandler(peternakService, baseLogger.Named("handlers.peternak"))
	laporanHandler := handlers.NewLaporanHandler(laporanService, baseLogger.Named("handlers.laporan"))

	var exportHandler *handlers.ExportHandler
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exportService := exportsvc.NewService(sheetsRepo, peternakRepo, laporanRepo, baseLogger.Named("svc.export"))
		exportHandler = handlers.NewExportHandler(exportService, baseLogger.Named("handlers.export"))
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("export spreadsheet not configured, export routes disabled")
	}

	engine := router.New(peternakHandler, laporanHandler, exportHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Audit, peternakRepo, laporanRepo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
