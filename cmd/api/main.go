package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/brightsteps/records-api/api/swagger"
	"github.com/brightsteps/records-api/internal/ai"
	"github.com/brightsteps/records-api/internal/handler"
	"github.com/brightsteps/records-api/internal/middleware"
	"github.com/brightsteps/records-api/internal/repository"
	"github.com/brightsteps/records-api/internal/service"
	"github.com/brightsteps/records-api/pkg/cache"
	"github.com/brightsteps/records-api/pkg/config"
	"github.com/brightsteps/records-api/pkg/database"
	"github.com/brightsteps/records-api/pkg/export"
	"github.com/brightsteps/records-api/pkg/logger"
	corsmiddleware "github.com/brightsteps/records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/brightsteps/records-api/pkg/middleware/requestid"
)

// @title BrightSteps Records API
// @version 0.1.0
// @description Class, student and progress records for special education groups
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}
	cancel()

	metricsSvc := service.NewMetricsService("records")

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	cardRepo := repository.NewCardRepository(db)

	translatedClassRepo := repository.NewTranslatedClassRepository(db)
	translatedStudentRepo := repository.NewTranslatedStudentRepository(db)
	translatedProgressRepo := repository.NewTranslatedProgressRepository(db)

	router := service.NewLocaleRouter(cfg.Locale.Default,
		classRepo, studentRepo, progressRepo,
		translatedClassRepo, translatedStudentRepo, translatedProgressRepo)

	csvExporter := export.NewCSVExporter()
	pdfExporter := export.NewPDFExporter()

	classSvc := service.NewClassService(classRepo, router, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, router, cacheSvc, nil, logr)
	progressSvc := service.NewProgressService(progressRepo, studentRepo, classRepo, router, cacheSvc, csvExporter, pdfExporter, nil, logr)
	lessonSvc := service.NewLessonService(lessonRepo, classRepo, pdfExporter, nil, logr)
	cardSvc := service.NewCardService(cardRepo, int(cfg.Cards.MaxImageBytes), logr)

	var plannerKeys []string
	if cfg.Planner.Enabled {
		plannerKeys = cfg.Planner.APIKeys
	}
	startIndex := 0
	if len(plannerKeys) > 1 {
		startIndex = rand.Intn(len(plannerKeys))
	}
	plannerClient := ai.NewPlannerClient(plannerKeys, cfg.Planner.Model, cfg.Planner.Timeout, startIndex, logr)
	pictogramClient := ai.NewPictogramClient(cfg.Pictogram.BaseURL, cfg.Pictogram.StaticURL, cfg.Pictogram.Locale, cfg.Pictogram.Timeout, logr)
	plannerSvc := service.NewPlannerService(plannerClient, pictogramClient, lessonRepo, studentRepo, studentRepo, classRepo, progressSvc, nil, logr)

	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	lessonHandler := handler.NewLessonHandler(lessonSvc)
	cardHandler := handler.NewCardHandler(cardSvc)
	generateHandler := handler.NewGenerateHandler(plannerSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
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
	{
		api.GET("/classes", classHandler.List)
		api.POST("/classes", classHandler.Create)
		api.GET("/classes/:id", classHandler.Get)
		api.PUT("/classes/:id", classHandler.Update)
		api.DELETE("/classes/:id", classHandler.Delete)
		api.GET("/classes/:id/progress", progressHandler.GetClass)
		api.GET("/classes/:id/progress/export", progressHandler.ExportClass)
		api.GET("/classes/:id/lessons", lessonHandler.ListByClass)
		api.POST("/classes/:id/lessons", lessonHandler.Create)
		api.POST("/classes/:id/lessons/generate", generateHandler.GenerateLesson)

		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)
		api.GET("/students/:id/progress", progressHandler.GetStudent)
		api.POST("/students/:id/progress", progressHandler.Set)
		api.DELETE("/students/:id/progress/:subcategoryId/plan", progressHandler.ClearPlan)
		api.POST("/students/:id/progress/:subcategoryId/plan/generate", generateHandler.GenerateGoalPlan)

		api.PATCH("/lessons/:id", lessonHandler.Update)
		api.DELETE("/lessons/:id", lessonHandler.Delete)
		api.GET("/lessons/:id/export", lessonHandler.Export)

		api.GET("/cards", cardHandler.List)
		api.POST("/cards", cardHandler.Create)
		api.DELETE("/cards/:id", cardHandler.Delete)

		api.GET("/pictograms", generateHandler.SearchPictogram)
		api.POST("/generate/visual-schedule", generateHandler.VisualSchedule)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
