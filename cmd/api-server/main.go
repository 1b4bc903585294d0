package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/handler"
	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/internal/middleware"
	"github.com/stempro/academy-api/internal/repository"
	"github.com/stempro/academy-api/internal/service"
	"github.com/stempro/academy-api/pkg/config"
	"github.com/stempro/academy-api/pkg/jobs"
	"github.com/stempro/academy-api/pkg/logger"
	corsmiddleware "github.com/stempro/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/stempro/academy-api/pkg/middleware/requestid"
)

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

	metrics := service.NewMetricsService()

	store, err := filedb.New(cfg.Data.Dir,
		filedb.WithLogger(logr),
		filedb.WithMetrics(metrics),
		filedb.WithLockPolicy(filedb.LockPolicy{
			Attempts:   cfg.Data.LockAttempts,
			Delay:      cfg.Data.LockDelay,
			StaleAfter: cfg.Data.LockStaleAfter,
		}))
	if err != nil {
		logr.Sugar().Fatalw("failed to open data directory", "dir", cfg.Data.Dir, "error", err)
	}
	if err := store.Initialize(); err != nil {
		logr.Sugar().Fatalw("failed to initialize collections", "error", err)
	}

	mailSender := mailer.New(cfg.Mail, logr)
	mailQueue := service.NewMailQueue(mailSender, jobs.QueueConfig{
		Workers: 2,
		Logger:  logr,
	})
	mailQueue.Start(context.Background())
	defer mailQueue.Stop()

	validate := validator.New()

	userRepo := repository.NewUserRepository(store)
	enrollmentRepo := repository.NewEnrollmentRepository(store)
	scheduleRepo := repository.NewScheduleRepository(store)
	applicationRepo := repository.NewJobApplicationRepository(store)
	signupRepo := repository.NewSignupRepository(store)

	authSvc := service.NewAuthService(userRepo, validate, logr, mailQueue, service.AuthConfig{
		TokenSecret:  cfg.JWT.Secret,
		TokenExpiry:  cfg.JWT.Expiration,
		ResetCodeTTL: cfg.Reset.CodeTTL,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, validate, logr, mailQueue)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr, mailQueue)
	applicationSvc := service.NewJobApplicationService(applicationRepo, validate, logr, mailQueue, cfg.Mail.AdminEmail)
	signupSvc := service.NewSignupService(signupRepo, validate, logr, mailQueue, cfg.Mail.AdminEmail)
	courseSvc := service.NewCourseService()
	exportSvc := service.NewExportService(enrollmentRepo, scheduleRepo, logr, nil, nil)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := buildRouter(cfg, logr, metrics, authSvc, userSvc, enrollmentSvc, scheduleSvc, applicationSvc, signupSvc, courseSvc, exportSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "data_dir", cfg.Data.Dir)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func buildRouter(
	cfg *config.Config,
	logr *zap.Logger,
	metrics *service.MetricsService,
	authSvc *service.AuthService,
	userSvc *service.UserService,
	enrollmentSvc *service.EnrollmentService,
	scheduleSvc *service.ScheduleService,
	applicationSvc *service.JobApplicationService,
	signupSvc *service.SignupService,
	courseSvc *service.CourseService,
	exportSvc *service.ExportService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	applicationHandler := handler.NewJobApplicationHandler(applicationSvc)
	signupHandler := handler.NewSignupHandler(signupSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	authRequired := middleware.JWT(authSvc)
	adminOnly := middleware.AdminOnly()

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authRequired, authHandler.Me)
		auth.POST("/check-email", authHandler.CheckEmail)
		auth.POST("/password-reset", authHandler.RequestPasswordReset)
		auth.POST("/password-reset-confirm", authHandler.ConfirmPasswordReset)
		auth.POST("/verify-code", authHandler.VerifyResetCode)
	}

	users := api.Group("/users", authRequired)
	{
		users.GET("", adminOnly, userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id", userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
		users.POST("/:id/make-admin", adminOnly, userHandler.MakeAdmin)
		users.POST("/:id/toggle-active", adminOnly, userHandler.ToggleActive)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.POST("", enrollmentHandler.Create)
		enrollments.GET("", authRequired, adminOnly, enrollmentHandler.List)
		enrollments.GET("/my", authRequired, enrollmentHandler.ListMine)
		enrollments.GET("/:id", authRequired, enrollmentHandler.Get)
		enrollments.PATCH("/:id", authRequired, adminOnly, enrollmentHandler.Update)
	}

	schedules := api.Group("/schedules")
	{
		schedules.POST("", scheduleHandler.Create)
		schedules.GET("", authRequired, adminOnly, scheduleHandler.List)
		schedules.GET("/my", authRequired, scheduleHandler.ListMine)
		schedules.GET("/pending", authRequired, adminOnly, scheduleHandler.ListPending)
		schedules.GET("/stats/summary", authRequired, adminOnly, scheduleHandler.Stats)
		schedules.GET("/:id", authRequired, scheduleHandler.Get)
		schedules.PATCH("/:id", authRequired, adminOnly, scheduleHandler.Update)
		schedules.DELETE("/:id", authRequired, adminOnly, scheduleHandler.Delete)
		schedules.POST("/:id/complete", authRequired, adminOnly, scheduleHandler.Complete)
		schedules.POST("/:id/cancel", authRequired, adminOnly, scheduleHandler.Cancel)
	}

	applications := api.Group("/job-applications")
	{
		applications.POST("", applicationHandler.Create)
		applications.GET("", authRequired, adminOnly, applicationHandler.List)
		applications.GET("/positions", applicationHandler.Positions)
		applications.GET("/stats/summary", authRequired, adminOnly, applicationHandler.Stats)
		applications.GET("/:id", authRequired, adminOnly, applicationHandler.Get)
		applications.PATCH("/:id", authRequired, adminOnly, applicationHandler.Update)
		applications.DELETE("/:id", authRequired, adminOnly, applicationHandler.Delete)
	}

	collegeninja := api.Group("/collegeninja")
	{
		collegeninja.POST("/student-signup", signupHandler.StudentSignup)
		collegeninja.POST("/counselor-signup", signupHandler.CounselorSignup)
		collegeninja.GET("/students", authRequired, adminOnly, signupHandler.ListStudents)
		collegeninja.GET("/counselors", authRequired, adminOnly, signupHandler.ListCounselors)
		collegeninja.GET("/stats", authRequired, adminOnly, signupHandler.Stats)
		collegeninja.PATCH("/students/:id", authRequired, adminOnly, signupHandler.UpdateStudentStatus)
		collegeninja.PATCH("/counselors/:id", authRequired, adminOnly, signupHandler.UpdateCounselorStatus)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", courseHandler.Catalog)
		courses.GET("/courses/:id", courseHandler.Course)
		courses.GET("/programs/:id", courseHandler.Program)
	}

	exports := api.Group("/exports", authRequired, adminOnly)
	{
		exports.GET("/enrollments", exportHandler.Enrollments)
		exports.GET("/schedules", exportHandler.Schedules)
	}

	return r
}
