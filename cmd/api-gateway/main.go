package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/observation-analytics-api/api/swagger"
	"github.com/noah-isme/observation-analytics-api/internal/handler"
	internalmiddleware "github.com/noah-isme/observation-analytics-api/internal/middleware"
	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/repository"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	"github.com/noah-isme/observation-analytics-api/pkg/cache"
	"github.com/noah-isme/observation-analytics-api/pkg/config"
	"github.com/noah-isme/observation-analytics-api/pkg/database"
	"github.com/noah-isme/observation-analytics-api/pkg/export"
	"github.com/noah-isme/observation-analytics-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/observation-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/observation-analytics-api/pkg/middleware/requestid"
)

// @title Observation Analytics API
// @version 1.0.0
// @description Scoped analytics, dashboards and reports over classroom observations
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database unavailable", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	var settingsStore service.SettingsStore = repository.NewMemorySettingsStore()
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis unavailable", "error", err)
		}
		defer redisClient.Close()
		settingsStore = repository.NewRedisSettingsStore(redisClient, cfg.Settings.KeyPrefix, cfg.Settings.TTL, logr)
	}

	clock := clockwork.NewRealClock()
	validate := validator.New()

	observations := repository.NewObservationRepository(db)
	metricsSvc := service.NewMetricsService()
	analyticsSvc := service.NewAnalyticsService(observations, metricsSvc, logr, service.AnalyticsServiceConfig{
		TopIndicators:        cfg.Analytics.TopIndicators,
		ImprovementThreshold: cfg.Analytics.ImprovementThreshold,
	})
	trendSvc := service.NewTrendService(observations, metricsSvc, clock, logr, service.TrendServiceConfig{
		ForecastWindow: cfg.Analytics.ForecastWindow,
		DefaultPeriods: cfg.Analytics.DefaultPeriods,
	})
	comparisonSvc := service.NewComparisonService(trendSvc, observations, clock, logr)
	guidance := service.NewInsightGenerator(clock)
	settingsSvc := service.NewSettingsService(settingsStore, logr)
	overviewSvc := service.NewOverviewService(analyticsSvc, trendSvc, guidance, clock, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Analytics:   analyticsSvc,
		Geographic:  analyticsSvc,
		Trends:      trendSvc,
		Guidance:    guidance,
		Preferences: settingsSvc,
		Clock:       clock,
		Logger:      logr,
		Config: service.DashboardServiceConfig{
			TopPerformers:     cfg.Dashboard.TopPerformers,
			TopPerEntityType:  cfg.Dashboard.TopPerEntityType,
			DefaultTimePeriod: cfg.Dashboard.DefaultTimePeriod,
		},
	})
	var pdfRenderer export.Renderer
	if cfg.Reports.PDFFontPath != "" {
		pdfExporter, err := export.NewPDFExporterWithFont(cfg.Reports.PDFFontPath)
		if err != nil {
			logr.Sugar().Fatalw("pdf font unavailable", "path", cfg.Reports.PDFFontPath, "error", err)
		}
		pdfRenderer = pdfExporter
	}
	exportSvc := service.NewExportService(nil, nil, pdfRenderer, logr)
	reportSvc := service.NewReportService(service.ReportServiceParams{
		Analytics:   analyticsSvc,
		Geographic:  analyticsSvc,
		Subjects:    analyticsSvc,
		Trends:      trendSvc,
		Comparison:  comparisonSvc,
		Guidance:    guidance,
		Exporter:    exportSvc,
		Preferences: settingsSvc,
		Metrics:     metricsSvc,
		Clock:       clock,
		Logger:      logr,
		Config: service.ReportServiceConfig{
			DefaultLocale:    cfg.Reports.DefaultLocale,
			OrganizationName: cfg.Reports.OrganizationName,
		},
	})
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, clock)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, trendSvc, overviewSvc, comparisonSvc, validate)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, validate)
	reportHandler := handler.NewReportHandler(reportSvc, validate)
	settingsHandler := handler.NewSettingsHandler(settingsSvc, validate)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(tokenSvc))

	analytics := api.Group("/analytics")
	analytics.GET("/overview", analyticsHandler.Overview)
	analytics.GET("/metrics", analyticsHandler.Metrics)
	analytics.GET("/geographic", analyticsHandler.Geographic)
	analytics.GET("/subjects", analyticsHandler.Subjects)
	analytics.GET("/timeseries", analyticsHandler.TimeSeries)
	analytics.GET("/trends", analyticsHandler.Trends)
	analytics.GET("/seasonal", analyticsHandler.Seasonal)
	analytics.GET("/realtime", analyticsHandler.Realtime)
	analytics.POST("/compare", analyticsHandler.Compare)

	api.GET("/dashboard", dashboardHandler.Dashboard)

	reports := api.Group("/reports")
	reports.GET("/templates", reportHandler.Templates)
	reports.POST("/generate", reportHandler.Generate)
	reports.POST("/custom", internalmiddleware.RequireTemplate(models.TemplateDetailed), reportHandler.Custom)

	settings := api.Group("/settings")
	settings.GET("/:key", settingsHandler.Get)
	settings.PUT("/:key", settingsHandler.Put)
	settings.DELETE("/:key", settingsHandler.Delete)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http server shutdown failed", zap.Error(err))
	}
	if err := settingsSvc.Shutdown(shutdownCtx); err != nil {
		logr.Warn("settings store cleanup failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
