package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/config"
	"github.com/mamadbah2/cement/internal/repository/mongodb"
	"github.com/mamadbah2/cement/internal/repository/sheets"
	"github.com/mamadbah2/cement/internal/repository/state"
	"github.com/mamadbah2/cement/internal/repository/store"
	"github.com/mamadbah2/cement/internal/scheduler"
	"github.com/mamadbah2/cement/internal/server/handlers"
	"github.com/mamadbah2/cement/internal/server/router"
	commandsvc "github.com/mamadbah2/cement/internal/service/commands"
	"github.com/mamadbah2/cement/internal/service/export"
	"github.com/mamadbah2/cement/internal/service/reconciliation"
	reportingsvc "github.com/mamadbah2/cement/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/cement/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/cement/pkg/clients/whatsapp"
	"github.com/mamadbah2/cement/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	blobs, closeStore, err := openBlobStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init blob store", zap.Error(err), zap.String("backend", cfg.Store.Backend))
	}
	defer closeStore()

	engine, err := reconciliation.NewEngine(context.Background(),
		state.NewSales(blobs, baseLogger.Named("repo.sales")),
		state.NewInventory(blobs, baseLogger.Named("repo.inventory")),
		baseLogger.Named("svc.reconciliation"))
	if err != nil {
		baseLogger.Fatal("failed to load ledgers", zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(engine, baseLogger.Named("svc.reporting"))
	loc := cfg.Reporting.Location()

	// Interface values stay untyped nil when an integration is disabled.
	var (
		reportMirror handlers.SheetsSyncer
		cronMirror   scheduler.SheetsSyncer
	)
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror := export.NewSheetsMirror(sheetsRepo, engine, baseLogger.Named("svc.sheets"))
		reportMirror, cronMirror = mirror, mirror
		baseLogger.Info("google sheets mirror enabled")
	} else {
		baseLogger.Warn("google sheets not configured, mirror disabled")
	}

	routes := router.Handlers{
		Sales:     handlers.NewSalesHandler(engine, reportingSvc, baseLogger.Named("handlers.sales")),
		Inventory: handlers.NewInventoryHandler(engine, baseLogger.Named("handlers.inventory")),
		Reports:   handlers.NewReportHandler(reportingSvc, reportMirror, loc, baseLogger.Named("handlers.reports")),
	}

	var messenger scheduler.Messenger
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(engine, reportingSvc, loc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		sessions := whatsappsvc.NewSessionManager(whatsappsvc.DefaultConfirmationTTL)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, sessions, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		messenger = messagingSvc
		baseLogger.Info("whatsapp messaging enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, messaging disabled")
	}

	httpEngine, err := router.New(routes, baseLogger.Named("router"))
	if err != nil {
		baseLogger.Fatal("failed to init router", zap.Error(err))
	}

	sched := scheduler.NewScheduler(*cfg, reportingSvc, messenger, cronMirror, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

// openBlobStore returns the configured backend and a func releasing it.
func openBlobStore(cfg *config.Config, base *zap.Logger) (store.BlobStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		base.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory(), func() {}, nil
	case config.BackendMongo:
		repo, err := mongodb.NewBlobRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, base.Named("repo.mongodb"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.Close(ctx); err != nil {
				base.Error("failed to close mongodb connection", zap.Error(err))
			}
		}, nil
	case config.BackendFile:
		fs, err := store.NewFileStore(cfg.Store.DataDir, base.Named("repo.file"))
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
