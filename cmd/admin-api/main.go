package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/classtrack/attendance-admin-api/api/swagger"
	"github.com/classtrack/attendance-admin-api/internal/handler"
	internalmiddleware "github.com/classtrack/attendance-admin-api/internal/middleware"
	"github.com/classtrack/attendance-admin-api/internal/repository"
	"github.com/classtrack/attendance-admin-api/internal/service"
	"github.com/classtrack/attendance-admin-api/pkg/cache"
	"github.com/classtrack/attendance-admin-api/pkg/config"
	"github.com/classtrack/attendance-admin-api/pkg/database"
	"github.com/classtrack/attendance-admin-api/pkg/logger"
	corsmiddleware "github.com/classtrack/attendance-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classtrack/attendance-admin-api/pkg/middleware/requestid"
	"github.com/classtrack/attendance-admin-api/pkg/storage"
)

// @title Attendance Admin API
// @version 1.0.0
// @description Back-office directory and course assignment service
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

	ctx := context.Background()

	client, db, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to mongodb", "error", err)
	}
	defer client.Disconnect(ctx) //nolint:errcheck

	// Repositories share the single database handle.
	studentRepo := repository.NewStudentRepository(db, logr)
	teacherRepo := repository.NewTeacherRepository(db, logr)
	adminRepo := repository.NewAdminRepository(db, logr)
	courseRepo := repository.NewCourseRepository(db, logr)
	fieldRepo := repository.NewFieldRepository(db, logr)
	accountRepo := repository.NewAccountRepository(db, logr)
	assignmentRepo := repository.NewAssignmentRepository(client, db, logr)

	var catalogCache *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		catalogCache = repository.NewCacheRepository(redisClient, cfg.Cache.FieldTTL, logr)
	}

	var metricsService *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsService = service.NewMetricsService()
	}

	imageStore, err := storage.NewLocalStorage(cfg.Storage.ProfileImageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init profile image storage", "error", err)
	}

	fieldService := newFieldService(fieldRepo, catalogCache, metricsService, logr)
	courseService := service.NewCourseService(courseRepo, fieldRepo, nil, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, teacherRepo, fieldRepo, metricsService, logr)
	userService := service.NewUserService(studentRepo, teacherRepo, adminRepo, accountRepo, imageStore, nil, metricsService, logr)
	authService := service.NewAuthService(accountRepo, userService, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(courseRepo, teacherRepo, studentRepo, exportStore, signer, metricsService, service.ExportServiceConfig{
			APIPrefix:   cfg.APIPrefix,
			Concurrency: cfg.Exports.WorkerConcurrency,
			Retries:     cfg.Exports.WorkerRetries,
		}, logr)
		exportService.Start(ctx)
		defer exportService.Stop()
	}

	router := buildRouter(cfg, logr, metricsService, authService, fieldService, courseService, assignmentService, userService, exportService)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newFieldService(repo *repository.FieldRepository, catalogCache *repository.CacheRepository, metrics *service.MetricsService, logr *zap.Logger) *service.FieldService {
	if catalogCache == nil {
		// A typed nil in the interface would dodge the service's nil check.
		return service.NewFieldService(repo, nil, nil, metrics, logr)
	}
	return service.NewFieldService(repo, catalogCache, nil, metrics, logr)
}

func buildRouter(cfg *config.Config, logr *zap.Logger, metricsService *service.MetricsService, authService *service.AuthService, fieldService *service.FieldService, courseService *service.CourseService, assignmentService *service.AssignmentService, userService *service.UserService, exportService *service.ExportService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsService != nil {
		r.Use(internalmiddleware.Metrics(metricsService))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if metricsService != nil {
		metricsHandler := handler.NewMetricsHandler(metricsService)
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	authHandler := handler.NewAuthHandler(authService)
	fieldHandler := handler.NewFieldHandler(fieldService)
	courseHandler := handler.NewCourseHandler(courseService, assignmentService)
	userHandler := handler.NewUserHandler(userService, assignmentService)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		// Downloads authenticate via the signed token embedded in the URL.
		api.GET("/exports/download/:token", exportHandler.Download)

		exports := api.Group("/exports", internalmiddleware.JWT(authService), internalmiddleware.RequireAdmin())
		exports.POST("", exportHandler.Create)
		exports.GET("/:id", exportHandler.Get)
	}

	secured := api.Group("", internalmiddleware.JWT(authService), internalmiddleware.RequireAdmin())

	fields := secured.Group("/fields")
	fields.GET("", fieldHandler.List)
	fields.GET("/:id", fieldHandler.Get)
	fields.POST("", fieldHandler.Create)
	fields.PUT("/:id", fieldHandler.Update)
	fields.DELETE("/:id", fieldHandler.Delete)

	courses := secured.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create)
	courses.PUT("/:id", courseHandler.Update)
	courses.PUT("/:id/schedule", courseHandler.Relocate)
	courses.DELETE("/:id", courseHandler.Delete)
	courses.PUT("/:id/teacher", courseHandler.Assign)
	courses.DELETE("/:id/teacher", courseHandler.Unassign)

	users := secured.Group("/users")
	users.GET("", userHandler.Directory)
	users.GET("/:email", userHandler.Resolve)
	users.POST("/students", userHandler.CreateStudent)
	users.PUT("/students/:email", userHandler.UpdateStudent)
	users.POST("/teachers", userHandler.CreateTeacher)
	users.PUT("/teachers/:email", userHandler.UpdateTeacher)
	users.POST("/admins", userHandler.CreateAdmin)
	users.PUT("/:email/active", userHandler.SetActive)
	users.DELETE("/:email", userHandler.Delete)
	users.POST("/:email/image", userHandler.UploadProfileImage)
	users.DELETE("/:email/image", userHandler.DeleteProfileImage)
	users.PUT("/:email/fields/:fieldId", userHandler.AssignField)
	users.DELETE("/:email/fields/:fieldId", userHandler.UnassignField)

	return r
}
