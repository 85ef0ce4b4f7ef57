package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/exlity/admin-backend/docs"
	"github.com/exlity/admin-backend/internal/api/handler"
	"github.com/exlity/admin-backend/internal/api/middleware"
	"github.com/exlity/admin-backend/internal/core/ports"
	"github.com/exlity/admin-backend/internal/core/service"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	client *service.Client,
	exporter *service.Exporter,
	audit ports.AuditSink,
	throttle ports.LoginThrottle,
	db *gorm.DB,
	rdb *redis.Client,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("adminapi"))

	// --- Dependencies ---
	entityHandler := handler.NewEntityHandler(client.Entities, audit)
	authHandler := handler.NewAuthHandler(client.Auth)
	integrationHandler := handler.NewIntegrationHandler(client.Integrations, client.Functions)
	exportHandler := handler.NewExportHandler(exporter)

	requireAuth := middleware.Auth(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)
	requireAdmin := middleware.RequireAdmin(client.Auth)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/login", authHandler.Login, middleware.LoginRateLimit(throttle, log))
	auth.POST("/logout", authHandler.Logout, optionalAuth)
	auth.GET("/me", authHandler.Me, optionalAuth)
	auth.PUT("/me", authHandler.UpdateMe, requireAuth)
	auth.GET("/check", authHandler.Check, optionalAuth)

	// --- Entity routes ---
	entities := e.Group("/v1/entities", requireAuth)
	entities.GET("/:entity", entityHandler.List)
	entities.POST("/:entity", entityHandler.Create)
	entities.GET("/:entity/:id", entityHandler.Get)
	entities.PUT("/:entity/:id", entityHandler.Update)
	entities.DELETE("/:entity/:id", entityHandler.Delete)

	// --- Integration routes ---
	integrations := e.Group("/v1/integrations", requireAuth)
	integrations.POST("/upload-file", integrationHandler.UploadFile)
	integrations.POST("/invoke-llm", integrationHandler.InvokeLLM)
	integrations.POST("/send-email", integrationHandler.SendEmail)
	integrations.POST("/generate-image", integrationHandler.GenerateImage)
	integrations.POST("/extract-data", integrationHandler.ExtractData)
	e.POST("/v1/functions/verify-hcaptcha", integrationHandler.VerifyHcaptcha, requireAuth)

	// --- Export (admin only) ---
	e.GET("/v1/export", exportHandler.Export, requireAuth, requireAdmin)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
