package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unsa-dacc/cb-ttp-engine/api/swagger"
	internalhandler "github.com/unsa-dacc/cb-ttp-engine/internal/handler"
	internalmiddleware "github.com/unsa-dacc/cb-ttp-engine/internal/middleware"
	"github.com/unsa-dacc/cb-ttp-engine/internal/models"
	"github.com/unsa-dacc/cb-ttp-engine/internal/repository"
	"github.com/unsa-dacc/cb-ttp-engine/internal/service"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/cache"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/config"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/database"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/jobs"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/logger"
	corsmiddleware "github.com/unsa-dacc/cb-ttp-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/unsa-dacc/cb-ttp-engine/pkg/middleware/requestid"
	"github.com/unsa-dacc/cb-ttp-engine/pkg/storage"
)

// @title Course Timetabling API
// @version 0.1.0
// @description GA-based university course timetabling service.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	// --- auth ---------------------------------------------------------
	authRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(authRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "cb-ttp-engine",
		Audience:           []string{"cb-ttp-engine-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authSvc))
	protectedAuth.POST("/logout", authHandler.Logout)
	protectedAuth.POST("/change-password", authHandler.ChangePassword)
	protectedAuth.GET("/me", authHandler.Me)

	// --- repositories ---------------------------------------------------
	teacherRepo := repository.NewTeacherRepository(db)
	termRepo := repository.NewTermRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewTeacherAssignmentRepository(db)
	preferenceRepo := repository.NewTeacherPreferenceRepository(db)
	semesterScheduleRepo := repository.NewSemesterScheduleRepository(db)
	semesterSlotRepo := repository.NewSemesterScheduleSlotRepository(db)

	// --- cache (optional: degrades to disabled cache if redis is down) --
	var cacheRepo service.CacheRepository
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("cache disabled", "error", err)
	} else {
		defer client.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(client, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, 5*time.Minute, logr, cacheRepo != nil)

	// --- domain services --------------------------------------------
	termSvc := service.NewTermService(termRepo, nil, logr)
	termHandler := internalhandler.NewTermHandler(termSvc)

	courseSvc := service.NewCourseService(courseRepo, nil, logr)
	courseHandler := internalhandler.NewCourseHandler(courseSvc)

	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	assignmentSvc := service.NewTeacherAssignmentService(
		teacherRepo,
		courseRepo,
		termRepo,
		assignmentRepo,
		preferenceRepo,
		nil,
		logr,
	)
	preferenceSvc := service.NewTeacherPreferenceService(teacherRepo, preferenceRepo, nil, logr)
	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc, assignmentSvc, preferenceSvc)

	var generatorSvc *service.TimetableGeneratorService
	generationQueue := jobs.NewQueue("timetable-generation", func(ctx context.Context, job jobs.Job) error {
		return generatorSvc.HandleAsyncJob(ctx, job)
	}, jobs.QueueConfig{Workers: 2, Logger: logr})
	generationQueue.Start(context.Background())

	generatorSvc = service.NewTimetableGeneratorService(
		termRepo,
		semesterScheduleRepo,
		semesterSlotRepo,
		db,
		nil,
		logr,
		service.TimetableGeneratorConfig{
			RunTTL:         cfg.Solver.ProposalTTL,
			Queue:          generationQueue,
			AsyncThreshold: cfg.Solver.AsyncThreshold,
			Cache:          cacheSvc,
		},
	)
	generatorHandler := internalhandler.NewTimetableGeneratorHandler(generatorSvc)

	var exportHandler *internalhandler.ScheduleExportHandler
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Warnw("schedule export storage disabled", "error", err)
	} else {
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewScheduleExportService(
			semesterScheduleRepo,
			semesterSlotRepo,
			exportStore,
			signer,
			service.ScheduleExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
			logr,
		)
		exportHandler = internalhandler.NewScheduleExportHandler(exportSvc)
	}

	// --- routes ----------------------------------------------------------
	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	termsGroup := secured.Group("/terms")
	termsGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.List)
	termsGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.Create)
	termsGroup.GET("/active", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.GetActive)
	termsGroup.POST("/set-active", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.SetActive)
	termsGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.Get)
	termsGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), termHandler.Update)
	termsGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), termHandler.Delete)

	termsGroup.POST("/:id/timetable/generate", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.Generate)
	termsGroup.GET("/:id/timetable/runs/:runId", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.GetRun)
	termsGroup.POST("/:id/timetable/runs/:runId/commit", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.Commit)
	termsGroup.GET("/:id/timetable/schedules", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.List)

	coursesGroup := secured.Group("/courses")
	coursesGroup.GET("", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), courseHandler.List)
	coursesGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), courseHandler.Create)
	coursesGroup.GET("/:id", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), courseHandler.Get)
	coursesGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), courseHandler.Update)
	coursesGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), courseHandler.Delete)

	teachersGroup := secured.Group("/teachers")
	teachersGroup.GET("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.List)
	teachersGroup.POST("", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Create)
	teachersGroup.GET("/:id", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Get)
	teachersGroup.PUT("/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.Update)
	teachersGroup.DELETE("/:id", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), teacherHandler.Delete)
	teachersGroup.GET("/:id/assignments", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.ListAssignments)
	teachersGroup.POST("/:id/assignments", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.CreateAssignment)
	teachersGroup.DELETE("/:id/assignments/:aid", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.DeleteAssignment)
	teachersGroup.GET("/:id/preferences", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.GetPreferences)
	teachersGroup.PUT("/:id/preferences", internalmiddleware.RBAC("SELF", string(models.RoleAdmin), string(models.RoleSuperAdmin)), teacherHandler.UpsertPreferences)

	timetableGroup := secured.Group("/timetable")
	timetableGroup.GET("/schedules/:scheduleId/slots", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.GetSlots)
	timetableGroup.POST("/schedules/:scheduleId/publish", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)), generatorHandler.Publish)
	timetableGroup.DELETE("/schedules/:scheduleId", internalmiddleware.RBAC(string(models.RoleSuperAdmin)), generatorHandler.Delete)
	if exportHandler != nil {
		timetableGroup.POST("/schedules/:scheduleId/export", internalmiddleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), string(models.RoleSuperAdmin)), exportHandler.Generate)
		timetableGroup.GET("/exports/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
