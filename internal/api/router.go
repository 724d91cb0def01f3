package api

import (
	"github.com/toneforge/toneforge-api/internal/api/handlers"
	"github.com/toneforge/toneforge-api/internal/api/middleware"
	"github.com/toneforge/toneforge-api/internal/config"
	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/llm"
	authmiddleware "github.com/toneforge/toneforge-api/internal/middleware"
	"github.com/toneforge/toneforge-api/internal/metrics"
	"github.com/toneforge/toneforge-api/internal/services"
	"github.com/toneforge/toneforge-api/internal/storage"
	"github.com/toneforge/toneforge-api/internal/undoredo"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies bundles everything the router needs to wire handlers. DB,
// Repository, and EmailService are nil unless cfg.RequiresDatabase().
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	Repository   *storage.Repository
	HostClient   *host.Client
	UndoManager  *undoredo.Manager
	Providers    *llm.ProviderFactory
	EmailService *services.EmailService
	Metrics      *metrics.Client // CloudWatch; nil-safe, disabled outside production
}

func SetupRouter(deps *Dependencies, version string) *gin.Engine {
	cfg := deps.Config
	router := gin.New()

	router.Use(middleware.RecoverWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.RequestTracking())
	router.Use(middleware.CORS())

	router.Static("/static", "./static")

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.HostClient)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	toneHandler := handlers.NewToneHandler(cfg, deps.Providers, deps.Repository, deps.Metrics)
	hostHandler := handlers.NewHostHandler(cfg, deps.HostClient, deps.UndoManager, deps.Repository, deps.Metrics)

	v1 := router.Group("/api/v1")
	v1.Use(getAuthMiddleware(deps))
	{
		v1.POST("/tone/engineer", toneHandler.Engineer)
		v1.POST("/tone/sanitize", toneHandler.Sanitize)
		v1.POST("/tone/map", toneHandler.Map)
		v1.GET("/tone/history", toneHandler.History)

		v1.POST("/host/snapshot", hostHandler.Snapshot)
		v1.POST("/host/apply", hostHandler.Apply)
		v1.POST("/host/undo", hostHandler.Undo)
		v1.POST("/host/redo", hostHandler.Redo)
	}

	if cfg.RequiresDatabase() {
		setupAuthRoutes(router, deps)
	}

	return router
}

// setupAuthRoutes wires the self-hosted user/auth surface: registration,
// login, OAuth, invitations, and admin user management. Only mounted when
// AUTH_MODE=local, since it needs deps.DB.
func setupAuthRoutes(router *gin.Engine, deps *Dependencies) {
	cfg := deps.Config
	db := deps.DB

	authHandler := handlers.NewAuthHandler(db, cfg, deps.EmailService)
	oauthHandler := handlers.NewOAuthHandler(db, cfg)
	invitationHandler := handlers.NewInvitationHandler(db, deps.EmailService)
	adminHandler := handlers.NewAdminHandler(db)
	userHandler := handlers.NewUserHandler(db)
	bootstrapHandler := handlers.NewBootstrapHandler(db)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/register/beta", authHandler.RegisterBeta)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verification", authHandler.ResendVerification)
		auth.POST("/accept-invitation", authHandler.AcceptInvitation)
		auth.GET("/:provider", oauthHandler.BeginAuth)
		auth.GET("/:provider/callback", oauthHandler.Callback)
	}

	jwtAuth := authmiddleware.JWTAuth(db, cfg)

	userRoutes := router.Group("/api/user")
	userRoutes.Use(jwtAuth)
	{
		userRoutes.GET("/profile", userHandler.GetProfile)
		userRoutes.GET("/credits", userHandler.GetCredits)
		userRoutes.GET("/usage/stats", userHandler.GetUsageStats)
		userRoutes.GET("/usage/history", userHandler.GetUsageHistory)
	}

	adminRoutes := router.Group("/api/admin")
	adminRoutes.Use(jwtAuth, authmiddleware.AdminRequired())
	{
		adminRoutes.GET("/users", adminHandler.ListUsers)
		adminRoutes.GET("/users/:id", adminHandler.GetUserDetails)
		adminRoutes.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
		adminRoutes.PATCH("/users/:id/active", adminHandler.ToggleUserActive)
		adminRoutes.PATCH("/users/:id/credits", adminHandler.UpdateUserCredits)
		adminRoutes.DELETE("/users/:id", adminHandler.DeleteUser)

		adminRoutes.POST("/invitations", invitationHandler.CreateInvitation)
		adminRoutes.GET("/invitations", invitationHandler.ListInvitations)
		adminRoutes.DELETE("/invitations/:id", invitationHandler.DeleteInvitation)
		adminRoutes.GET("/invitations/stats", invitationHandler.GetInvitationStats)
		adminRoutes.POST("/invitations/:id/send", invitationHandler.SendInvitation)
		adminRoutes.POST("/invitations/:id/resend", invitationHandler.ResendInvitation)

		adminRoutes.POST("/bootstrap/admin", bootstrapHandler.SetAdminRole)
		adminRoutes.POST("/bootstrap/cleanup", bootstrapHandler.CleanupUsers)
	}
}

// getAuthMiddleware returns the appropriate auth middleware for the
// /api/v1 tone/host routes based on AUTH_MODE.
func getAuthMiddleware(deps *Dependencies) gin.HandlerFunc {
	switch deps.Config.AuthMode {
	case "gateway":
		return middleware.GatewayAuth()
	case "local":
		return authmiddleware.JWTAuth(deps.DB, deps.Config)
	default:
		return middleware.NoAuth()
	}
}
