package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	"github.com/protorh/protorh-api/internal/api/handler"
	"github.com/protorh/protorh-api/internal/api/middleware"
	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
	"github.com/protorh/protorh-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router mounts. Services are built by the
// caller so the router stays free of storage concerns.
type Deps struct {
	Log         zerolog.Logger
	Tokens      ports.TokenValidator
	Policy      *policy.Engine
	Auth        ports.AuthService
	Users       ports.UserService
	Departments ports.DepartmentService
	HRRequests  ports.HRRequestService
	Pictures    ports.PictureService
	// Checks are the readiness probes of the configured dependencies.
	Checks     map[string]handlers.Check
	Production bool
	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	secureHeaders := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !d.Production,
	})

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echo.WrapMiddleware(secureHeaders.Handler))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "protorh",
		Registerer: d.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	pictureHandler := handler.NewPictureHandler(d.Pictures)
	departmentHandler := handler.NewDepartmentHandler(d.Departments)
	hrHandler := handler.NewHRRequestHandler(d.HRRequests)
	authMiddleware := middleware.Auth(d.Tokens)

	// --- Public routes ---
	e.GET("/hello", authHandler.Hello)
	e.POST("/user/create", authHandler.Register)
	e.POST("/connect", authHandler.Login)
	e.POST("/user/password", authHandler.ChangePassword)

	// --- Authenticated routes ---
	e.GET("/user/:user_id", userHandler.Get, authMiddleware)
	e.POST("/user/update", userHandler.Update, authMiddleware)
	e.POST("/upload/picture/user/:user_id", pictureHandler.Upload, authMiddleware)
	e.GET("/picture/user/:user_id", pictureHandler.Get, authMiddleware)

	departments := e.Group("/departements", authMiddleware)
	departments.POST("", departmentHandler.Create, middleware.Authorize(d.Policy, domain.ActionManageDepartment))
	departments.POST("/:department_id/users/add", departmentHandler.AddMembers, middleware.Authorize(d.Policy, domain.ActionManageDepartment))
	departments.POST("/:department_id/users/remove", departmentHandler.RemoveMembers, middleware.Authorize(d.Policy, domain.ActionManageDepartment))
	departments.GET("/:department_id/users", departmentHandler.ListMembers, middleware.Authorize(d.Policy, domain.ActionReadDepartment))

	rh := e.Group("/rh/msg", authMiddleware)
	rh.POST("/add", hrHandler.Create, middleware.Authorize(d.Policy, domain.ActionCreateHRRequest))
	rh.POST("/update", hrHandler.Update)
	rh.POST("/remove", hrHandler.Remove)
	rh.GET("", hrHandler.List)
	rh.GET("/", hrHandler.List)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
