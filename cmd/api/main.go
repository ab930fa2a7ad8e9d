package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/learnhub/lms-api/api/swagger"
	"github.com/learnhub/lms-api/internal/handler"
	"github.com/learnhub/lms-api/internal/middleware"
	"github.com/learnhub/lms-api/internal/repository"
	"github.com/learnhub/lms-api/internal/service"
	"github.com/learnhub/lms-api/pkg/cache"
	"github.com/learnhub/lms-api/pkg/config"
	"github.com/learnhub/lms-api/pkg/database"
	"github.com/learnhub/lms-api/pkg/logger"
	corsmiddleware "github.com/learnhub/lms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/learnhub/lms-api/pkg/middleware/requestid"
)

// @title LearnHub LMS API
// @version 1.0.0
// @description Role-based learning platform with admin-moderated teachers, courses and reviews
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

	if err := database.Migrate(cfg.Database); err != nil {
		logr.Sugar().Fatalw("migrations failed", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	if cacheService == nil {
		cacheService = service.NewCacheService(nil, metricsService, cfg.Dashboard.CacheTTL, logr, false)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, reviewRepo, validate, logr)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)
	reviewService := service.NewReviewService(reviewRepo, enrollmentRepo, courseRepo, validate, logr)
	statsService := service.NewStatsService(userRepo, courseRepo, reviewRepo, enrollmentRepo, cacheService, logr)
	moderationService := service.NewModerationService(userRepo, courseRepo, reviewRepo, enrollmentRepo, statsService, validate, logr)

	authHandler := handler.NewAuthHandler(authService, userService)
	adminHandler := handler.NewAdminHandler(moderationService, statsService, metricsService, cfg.Exports.Enabled)
	teacherHandler := handler.NewTeacherHandler(courseService, statsService)
	studentHandler := handler.NewStudentHandler(courseService, enrollmentService, reviewService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

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

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, authService, authHandler, adminHandler, teacherHandler, studentHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
