package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Volker37318/day-results-api/api/swagger"
	"github.com/Volker37318/day-results-api/internal/handler"
	"github.com/Volker37318/day-results-api/internal/middleware"
	"github.com/Volker37318/day-results-api/internal/repository"
	"github.com/Volker37318/day-results-api/internal/service"
	"github.com/Volker37318/day-results-api/pkg/cache"
	"github.com/Volker37318/day-results-api/pkg/config"
	"github.com/Volker37318/day-results-api/pkg/database"
	"github.com/Volker37318/day-results-api/pkg/logger"
	corsmiddleware "github.com/Volker37318/day-results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/Volker37318/day-results-api/pkg/middleware/requestid"
)

// @title Day Results API
// @version 2.0.0
// @description Ingestion and aggregation service for lesson completion events
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to record store", "error", err)
	}
	defer db.Close() //nolint:errcheck

	resultRepo := repository.NewResultRepository(db)

	var dedupeRepo *repository.DedupeRepository
	if cfg.Dedupe.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			// Dedupe is best effort; the service runs without it.
			logr.Warn("redis unavailable, dedupe disabled", zap.Error(err))
		} else {
			dedupeRepo = repository.NewDedupeRepository(redisClient)
			defer redisClient.Close() //nolint:errcheck
		}
	}

	metricsSvc := service.NewMetricsService()

	ingestCfg := service.IngestServiceConfig{
		RequireIdentity: cfg.Ingest.RequireIdentity,
		DedupeEnabled:   cfg.Dedupe.Enabled && dedupeRepo != nil,
		DedupeTTL:       cfg.Dedupe.TTL,
	}
	var ingestSvc *service.IngestService
	if dedupeRepo != nil {
		ingestSvc = service.NewIngestService(resultRepo, dedupeRepo, metricsSvc, logr, ingestCfg)
	} else {
		ingestSvc = service.NewIngestService(resultRepo, nil, metricsSvc, logr, ingestCfg)
	}
	summarySvc := service.NewSummaryService(resultRepo, nil, metricsSvc, logr, cfg.Query.RowLimit)

	handlerCfg := handler.ResultHandlerConfig{
		MaxBodyBytes: cfg.Ingest.MaxBodyBytes,
		StrictErrors: cfg.Ingest.StrictErrors,
	}
	var resultHandler *handler.ResultHandler
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(summarySvc, nil)
		resultHandler = handler.NewResultHandler(ingestSvc, summarySvc, exportSvc, handlerCfg)
	} else {
		resultHandler = handler.NewResultHandler(ingestSvc, summarySvc, nil, handlerCfg)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/", resultHandler.Live)
	r.POST("/day-results", resultHandler.Submit)
	r.GET("/day-results", resultHandler.Query)
	r.GET("/day-results/export", resultHandler.Export)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
