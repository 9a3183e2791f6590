package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/unity-school/idcard-api/api/swagger"
	"github.com/unity-school/idcard-api/internal/handler"
	"github.com/unity-school/idcard-api/internal/middleware"
	"github.com/unity-school/idcard-api/internal/render"
	"github.com/unity-school/idcard-api/internal/repository"
	"github.com/unity-school/idcard-api/internal/service"
	"github.com/unity-school/idcard-api/pkg/config"
	"github.com/unity-school/idcard-api/pkg/logger"
	corsmiddleware "github.com/unity-school/idcard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unity-school/idcard-api/pkg/middleware/requestid"
	"github.com/unity-school/idcard-api/pkg/storage"
)

// @title Student ID Card API
// @version 0.1.0
// @description Generates, previews, exports and persists student identity cards
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

	store, err := newCardStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init card store", "driver", cfg.Store.Driver, "error", err)
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	institution := render.Institution{
		Name:    cfg.Card.InstitutionName,
		Tagline: cfg.Card.InstitutionTagline,
		Address: cfg.Card.InstitutionAddress,
		Phone:   cfg.Card.InstitutionPhone,
	}

	metricsSvc := service.NewMetricsService()
	cardSvc := service.NewCardService(store, validator.New(), metricsSvc, logr)
	exportSvc := service.NewExportService(cardSvc, exportStorage, institution, cfg.Card.Validity, cfg.Card.FilePrefix, metricsSvc, logr)

	cardHandler := handler.NewCardHandler(cardSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	cards := api.Group("/cards")
	{
		cards.POST("", cardHandler.Create)
		cards.GET("", cardHandler.List)
		cards.GET("/preview", cardHandler.ActivePreview)
		cards.GET("/export/roster", cardHandler.ExportRoster)
		cards.POST("/delete/confirm", cardHandler.ConfirmDelete)
		cards.POST("/delete/cancel", cardHandler.CancelDelete)
		cards.GET("/:id", cardHandler.Get)
		cards.GET("/:id/render", cardHandler.RenderInfo)
		cards.POST("/:id/preview", cardHandler.SetPreview)
		cards.GET("/:id/export", cardHandler.Export)
		cards.DELETE("/:id", cardHandler.RequestDelete)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newCardStore(cfg *config.Config, logr *zap.Logger) (repository.CardStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := repository.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, cfg.Store.Namespace, logr), nil
	case config.StoreDriverSQLite:
		db, err := repository.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLiteStore(db, cfg.Store.Namespace, logr), nil
	case config.StoreDriverFile:
		return repository.NewFileStore(cfg.Store.DataDir, cfg.Store.Namespace, logr)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
