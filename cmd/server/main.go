package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/config"
	"github.com/mamadbah2/smartbell/internal/repository/mongodb"
	"github.com/mamadbah2/smartbell/internal/repository/sheets"
	"github.com/mamadbah2/smartbell/internal/scheduler"
	"github.com/mamadbah2/smartbell/internal/server/handlers"
	"github.com/mamadbah2/smartbell/internal/server/router"
	commandsvc "github.com/mamadbah2/smartbell/internal/service/commands"
	reportingsvc "github.com/mamadbah2/smartbell/internal/service/reporting"
	"github.com/mamadbah2/smartbell/internal/service/stats"
	whatsappsvc "github.com/mamadbah2/smartbell/internal/service/whatsapp"
	"github.com/mamadbah2/smartbell/internal/store"
	whatsappclient "github.com/mamadbah2/smartbell/pkg/clients/whatsapp"
	"github.com/mamadbah2/smartbell/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	now := func() time.Time { return time.Now().In(loc) }

	st := store.New(logger.Named(baseLogger, "store"), store.WithClock(now))

	// Optional integrations stay nil interfaces when disabled.
	var (
		snapshotArchive reportingsvc.SnapshotArchive
		snapshotHistory handlers.SnapshotHistory
		ledgerReader    reportingsvc.LedgerReader
		commandLedger   commandsvc.ProductionLedger
		apiLedger       handlers.ProductionLedger
	)

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger := sheets.NewProductionLedger(sheetsRepo)
		ledgerReader, commandLedger, apiLedger = ledger, ledger, ledger
		baseLogger.Info("production ledger export enabled")
	} else {
		baseLogger.Warn("google sheets not configured, production ledger export disabled")
	}

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshotArchive, snapshotHistory = mongoRepo, mongoRepo
		baseLogger.Info("dashboard snapshot archive enabled")
	} else {
		baseLogger.Warn("mongodb not configured, dashboard snapshots will not be archived")
	}

	reportingSvc := reportingsvc.NewService(st, snapshotArchive, ledgerReader, now, logger.Named(baseLogger, "svc.reporting"))
	commandDispatcher := commandsvc.NewService(st, reportingSvc, commandLedger, now, logger.Named(baseLogger, "svc.commands"))

	var whatsClient whatsappclient.Client
	var sender scheduler.Sender
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp client enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, outbound messaging disabled")
	}
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))
	if whatsClient != nil {
		sender = messagingSvc
	}

	tracker := stats.NewTracker(st, now, logger.Named(baseLogger, "stats"))
	defer tracker.Close()

	engine := router.New(router.Handlers{
		Store:     handlers.NewStoreHandler(st, apiLedger, now, logger.Named(baseLogger, "handlers.store")),
		Dashboard: handlers.NewDashboardHandler(tracker, st, snapshotHistory, logger.Named(baseLogger, "handlers.dashboard")),
		Webhook:   handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp")),
	}, cfg.Server.GinMode, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, sender, logger.Named(baseLogger, "scheduler"))
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
		WriteTimeout: 15 * time.Second,
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
