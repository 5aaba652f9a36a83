package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ceimundo/asistencia-api/api/swagger"
	"github.com/ceimundo/asistencia-api/internal/handler"
	"github.com/ceimundo/asistencia-api/internal/middleware"
	"github.com/ceimundo/asistencia-api/internal/repository"
	"github.com/ceimundo/asistencia-api/internal/service"
	"github.com/ceimundo/asistencia-api/pkg/cache"
	"github.com/ceimundo/asistencia-api/pkg/config"
	"github.com/ceimundo/asistencia-api/pkg/database"
	"github.com/ceimundo/asistencia-api/pkg/export"
	"github.com/ceimundo/asistencia-api/pkg/logger"
	corsmiddleware "github.com/ceimundo/asistencia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ceimundo/asistencia-api/pkg/middleware/requestid"
	"github.com/ceimundo/asistencia-api/pkg/storage"
)

// @title Asistencia API
// @version 1.0.0
// @description QR attendance tracking for CEI Mundo de los niños
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	location, err := cfg.Location()
	if err != nil {
		logr.Sugar().Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it reports are computed on every request.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()

	personRepo := repository.NewPersonRepository(db)
	eventRepo := repository.NewEventRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{
		Secret:     cfg.Auth.Secret,
		Expiration: cfg.Auth.Expiration,
		Issuer:     cfg.Auth.Issuer,
	})
	scannerSvc := service.NewScannerService(cfg.Scanner.SessionTTL, logr)
	scanSvc := service.NewScanService(personRepo, eventRepo, scannerSvc, cacheSvc, metricsSvc, validate, logr, location)
	reportSvc := service.NewReportService(eventRepo, cacheSvc, cfg.Reports.CacheTTL, logr)
	exportSvc := service.NewExportService(reportSvc, export.NewPDFExporter(), export.NewCSVExporter(), store, logr)
	jobSvc := service.NewReportJobService(exportJobRepo, exportSvc, signer, store, service.ReportJobConfig{
		Workers:         cfg.Reports.WorkerConcurrency,
		MaxRetries:      cfg.Reports.WorkerRetries,
		FileTTL:         cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	}, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	scannerHandler := handler.NewScannerHandler(scannerSvc)
	scanHandler := handler.NewScanHandler(scanSvc)
	reportHandler := handler.NewReportHandler(reportSvc, jobSvc, location)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/anonymous", authHandler.Anonymous)
	api.GET("/export/:token", reportHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.DeviceSession(authSvc))
	protected.POST("/scanner/sessions", scannerHandler.StartSession)
	protected.DELETE("/scanner/sessions/:id", scannerHandler.StopSession)
	protected.POST("/scans", scanHandler.Scan)
	protected.GET("/reports/daily", reportHandler.Daily)
	protected.GET("/reports/export", reportHandler.CreateExport)
	protected.GET("/reports/export/:id", reportHandler.ExportStatus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobSvc.Start(ctx)
	defer jobSvc.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
