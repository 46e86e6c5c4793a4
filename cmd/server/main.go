package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/cache"
	"github.com/seydifall/dindetrack/internal/config"
	"github.com/seydifall/dindetrack/internal/repository/mongodb"
	"github.com/seydifall/dindetrack/internal/repository/recordstore"
	"github.com/seydifall/dindetrack/internal/repository/sheets"
	"github.com/seydifall/dindetrack/internal/scheduler"
	"github.com/seydifall/dindetrack/internal/server/handlers"
	"github.com/seydifall/dindetrack/internal/server/router"
	rollupsvc "github.com/seydifall/dindetrack/internal/service/rollup"
	"github.com/seydifall/dindetrack/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	storeClient := recordstore.NewClient(cfg.RecordStore)
	rollupSvc := rollupsvc.NewService(storeClient, baseLogger.Named("svc.rollup"))

	summaryCache := cache.NewSummaryCache(context.Background(), cfg.Redis, baseLogger.Named("cache.summary"))
	defer func() {
		if err := summaryCache.Close(); err != nil {
			baseLogger.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	var archive mongodb.Repository
	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Warn("mongodb unavailable, snapshot archival disabled", zap.Error(err))
	} else {
		archive = mongoRepo
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
	}

	var exporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" {
		sheetExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Error("failed to init sheets exporter, export disabled", zap.Error(err))
		} else {
			exporter = sheetExporter
			baseLogger.Info("sheets export enabled")
		}
	}

	summaryHandler := handlers.NewSummaryHandler(rollupSvc, summaryCache, archive, baseLogger.Named("handlers.summary"))
	engine := router.New(summaryHandler, baseLogger.Named("router"))

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodDelete},
	})

	sched := scheduler.NewScheduler(*cfg, rollupSvc, archive, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsWrapper.Handler(engine),
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
