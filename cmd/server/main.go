package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/config"
	"github.com/mamadbah2/stockpanel/internal/repository/mongodb"
	"github.com/mamadbah2/stockpanel/internal/repository/sheets"
	"github.com/mamadbah2/stockpanel/internal/scheduler"
	"github.com/mamadbah2/stockpanel/internal/server/handlers"
	"github.com/mamadbah2/stockpanel/internal/server/router"
	messagesvc "github.com/mamadbah2/stockpanel/internal/service/messages"
	productsvc "github.com/mamadbah2/stockpanel/internal/service/products"
	reportingsvc "github.com/mamadbah2/stockpanel/internal/service/reporting"
	"github.com/mamadbah2/stockpanel/pkg/clients/inventoryapi"
	whatsappclient "github.com/mamadbah2/stockpanel/pkg/clients/whatsapp"
	"github.com/mamadbah2/stockpanel/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		exporter  reportingsvc.Exporter
		snapshots reportingsvc.SnapshotWriter
		notifier  reportingsvc.Notifier
		fallback  productsvc.FallbackProvider
	)

	if cfg.Sheets.Enabled() {
		sheetsExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetsExporter
	} else {
		baseLogger.Warn("google sheets not configured, report export disabled")
	}

	switch cfg.Inventory.Fallback {
	case config.FallbackNone:
		fallback = productsvc.NoFallback
	default:
		fallback = productsvc.SampleFallback
	}

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		snapshots = mongoRepo
		if cfg.Inventory.Fallback == config.FallbackSnapshot {
			fallback = productsvc.ChainFallback(productsvc.SnapshotFallback(mongoRepo), productsvc.SampleFallback)
		}
	}

	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp low stock alerts enabled")
	}

	apiClient := inventoryapi.NewClient(cfg.Inventory)
	store := productsvc.NewStore(apiClient, fallback, baseLogger.Named("svc.products"))
	contactSvc := messagesvc.NewService(apiClient, baseLogger.Named("svc.messages"))
	reportingSvc := reportingsvc.NewService(store, exporter, snapshots, notifier, cfg.WhatsApp.AlertRecipient, baseLogger.Named("svc.reporting"))

	if err := store.Load(context.Background()); err != nil {
		baseLogger.Warn("initial product load failed", zap.Error(err))
	}

	engine := router.New(
		handlers.NewInventoryHandler(store, baseLogger.Named("handlers.inventory")),
		handlers.NewMessagesHandler(contactSvc, baseLogger.Named("handlers.messages")),
		baseLogger.Named("router"),
	)

	sched, err := scheduler.NewScheduler(cfg.Reporting, store, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Inventory.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Inventory.BaseURL))
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
