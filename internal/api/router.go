package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/clinic-system/internal/api/handler"
	"github.com/carehub/clinic-system/internal/api/middleware"
	"github.com/carehub/clinic-system/internal/core/ports"
	"github.com/carehub/clinic-system/internal/core/service"
	clinicmongo "github.com/carehub/clinic-system/internal/infrastructure/db/mongo"
	clinicredis "github.com/carehub/clinic-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// audit is the asynchronous sink for status transition events; the caller
// owns its lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := clinicmongo.NewUserRepository(db)
	apptRepo := clinicmongo.NewAppointmentRepository(db)
	recordRepo := clinicmongo.NewRecordRepository(db)
	analyticsRepo := clinicmongo.NewAnalyticsRepository(db)
	codeStore := clinicredis.NewCodeStore(rdb)

	authz := service.NewAuthorizer(userRepo, log)
	authService := service.NewAuthService(userRepo, codeStore, jwtSecret, 24*time.Hour, log)
	apptService := service.NewAppointmentService(apptRepo, userRepo, audit, log)
	recordService := service.NewRecordService(recordRepo, apptRepo, userRepo, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	apptHandler := handler.NewAppointmentHandler(apptService)
	recordHandler := handler.NewRecordHandler(recordService)
	userHandler := handler.NewUserHandler(userRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authn := middleware.Auth(jwtSecret)
	guard := func(operation string) echo.MiddlewareFunc {
		return middleware.Authorize(authz, operation)
	}

	// --- Public routes ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/staff/login", authHandler.StaffLogin)
	auth.POST("/admin/login", authHandler.AdminLogin)
	auth.POST("/verify/send", authHandler.SendOTP)
	auth.POST("/verify", authHandler.VerifyOTP)
	auth.POST("/password/forgot", authHandler.ForgotPassword)
	auth.POST("/password/reset", authHandler.ResetPassword)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", authn)

	appts := v1.Group("/appointments")
	appts.POST("", apptHandler.Create, guard("appointments.create"))
	appts.GET("", apptHandler.List, guard("appointments.list"))
	appts.GET("/mine", apptHandler.ListMine, guard("appointments.list_own"))
	appts.GET("/:id", apptHandler.Get, guard("appointments.get"))
	appts.PATCH("/:id/status", apptHandler.SetStatus, guard("appointments.set_status"))

	records := v1.Group("/records")
	records.POST("", recordHandler.Create, guard("records.create"))
	records.GET("", recordHandler.List, guard("records.list"))
	records.GET("/mine", recordHandler.ListMine, guard("records.list_own"))

	v1.GET("/patients/:id/records", recordHandler.ListForPatient, guard("records.list_patient"))

	users := v1.Group("/users")
	users.GET("", userHandler.List, guard("users.list"))
	users.POST("/staff", authHandler.RegisterStaff, guard("auth.register_staff"))

	analytics := v1.Group("/analytics", guard("analytics.view"))
	analytics.GET("/appointments", analyticsHandler.Counts)
	analytics.GET("/appointments/status", analyticsHandler.ByStatus)
	analytics.GET("/no-show-rate", analyticsHandler.NoShowRate)

	return e
}
