package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dinacademy/batch-scheduler-api/api/swagger"
	"github.com/dinacademy/batch-scheduler-api/internal/handler"
	"github.com/dinacademy/batch-scheduler-api/internal/middleware"
	"github.com/dinacademy/batch-scheduler-api/internal/repository"
	"github.com/dinacademy/batch-scheduler-api/internal/service"
	"github.com/dinacademy/batch-scheduler-api/pkg/cache"
	"github.com/dinacademy/batch-scheduler-api/pkg/config"
	"github.com/dinacademy/batch-scheduler-api/pkg/database"
	"github.com/dinacademy/batch-scheduler-api/pkg/logger"
	corsmiddleware "github.com/dinacademy/batch-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dinacademy/batch-scheduler-api/pkg/middleware/requestid"
)

// @title Batch Scheduler API
// @version 1.0.0
// @description Class batch scheduling with teacher conflict detection
// @BasePath /api
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	timeframeRepo := repository.NewTimeframeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	userRepo := repository.NewUserRepository(db)

	detector := service.NewConflictDetector(timeframeRepo, batchRepo, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, nil, logr)
	timeframeSvc := service.NewTimeframeService(timeframeRepo, batchRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, batchRepo, nil, logr)
	batchSvc := service.NewBatchService(service.BatchServiceParams{
		Batches:  batchRepo,
		Courses:  courseRepo,
		Rooms:    roomRepo,
		Teachers: teacherRepo,
		Detector: detector,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
	})
	dashboardSvc := service.NewDashboardService(teacherRepo, timeframeRepo, batchRepo, cacheSvc, logr)
	exportSvc := service.NewExportService(batchSvc, cfg.Export.Enabled, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})

	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	timeframeHandler := handler.NewTimeframeHandler(timeframeSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	batchHandler := handler.NewBatchHandler(batchSvc, exportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	authHandler := handler.NewAuthHandler(authSvc)
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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/teachers", teacherHandler.List)
	api.GET("/courses", courseHandler.List)
	api.GET("/timeframes", timeframeHandler.List)
	api.GET("/rooms", roomHandler.List)
	api.GET("/batches", batchHandler.List)
	api.GET("/batches/:id", batchHandler.Get)
	api.GET("/batches/export/csv", batchHandler.ExportCSV)
	api.GET("/batches/export/pdf", batchHandler.ExportPDF)
	api.GET("/dashboard/availability", dashboardHandler.Availability)

	protected := api.Group("", middleware.JWT(authSvc))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/teachers", teacherHandler.Create)
	protected.DELETE("/teachers/:id", teacherHandler.Delete)
	protected.POST("/courses", courseHandler.Create)
	protected.DELETE("/courses/:id", courseHandler.Delete)
	protected.POST("/timeframes", timeframeHandler.Create)
	protected.DELETE("/timeframes/:id", timeframeHandler.Delete)
	protected.POST("/rooms", roomHandler.Create)
	protected.DELETE("/rooms/:id", roomHandler.Delete)
	protected.POST("/batches", batchHandler.Create)
	protected.PUT("/batches/:id", batchHandler.Update)
	protected.DELETE("/batches/:id", batchHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
