package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/supportdesk/knowledge-helper/internal/api/handler"
	"github.com/supportdesk/knowledge-helper/internal/api/middleware"
	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
	"github.com/supportdesk/knowledge-helper/internal/core/service"
	"github.com/supportdesk/knowledge-helper/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	log zerolog.Logger,
	credentials ports.CredentialStore,
	sessions ports.SessionStore,
	documents ports.DocumentStore,
	gateway ports.LLMGateway,
	recorder ports.AnalyticsRecorder,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("knowledge_http"))

	// --- Dependencies ---
	authService := service.NewAuthService(credentials, sessions, cfg.JWTSecret, cfg.SessionTTL, log)
	chatService := service.NewChatService(
		sessions,
		credentials,
		documents,
		service.NewRelevanceFilter(),
		service.NewPromptAssembler(cfg.LLM.PromptMaxBytes, cfg.LLM.HistoryTurns),
		gateway,
		recorder,
		log,
	)

	secureCookies := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, sessions, cfg.SessionTTL, secureCookies)
	chatHandler := handler.NewChatHandler(chatService, sessions)
	documentHandler := handler.NewDocumentHandler(documents)
	analyticsHandler := handler.NewAnalyticsHandler(recorder, credentials)

	authRequired := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/api/login", authHandler.Login)

	// --- Authenticated routes ---
	app := e.Group("/api", authRequired)
	app.POST("/logout", authHandler.Logout)
	app.GET("/me", authHandler.Me)
	app.POST("/chat", chatHandler.Ask)
	app.POST("/chat/reset", chatHandler.Reset)
	app.GET("/documents", documentHandler.List)
	app.GET("/documents/:name", documentHandler.Get)

	// --- Admin routes ---
	app.GET("/analytics", analyticsHandler.Report, adminOnly)
	app.POST("/users/reload", analyticsHandler.ReloadUsers, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DocumentsDir, cfg.UsersFile, cfg.LLM.APIKey != "")

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
