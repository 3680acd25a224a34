package api

import (
	"github.com/gin-gonic/gin"

	"github.com/MSamoilovic/FormForge-API/internal/api/handlers"
	"github.com/MSamoilovic/FormForge-API/internal/api/middleware"
	"github.com/MSamoilovic/FormForge-API/internal/core/auth"
)

type Router struct {
	engine            *gin.Engine
	authMiddleware    *middleware.AuthMiddleware
	authHandler       *handlers.AuthHandler
	formHandler       *handlers.FormHandler
	importHandler     *handlers.ImportHandler
	submissionHandler *handlers.SubmissionHandler
	aiHandler         *handlers.AIHandler
}

func NewRouter(
	authService *auth.Service,
	authHandler *handlers.AuthHandler,
	formHandler *handlers.FormHandler,
	importHandler *handlers.ImportHandler,
	submissionHandler *handlers.SubmissionHandler,
	aiHandler *handlers.AIHandler,
) *Router {
	return &Router{
		authMiddleware:    middleware.NewAuthMiddleware(authService),
		authHandler:       authHandler,
		formHandler:       formHandler,
		importHandler:     importHandler,
		submissionHandler: submissionHandler,
		aiHandler:         aiHandler,
	}
}

func (r *Router) Setup(mode string, corsOrigins []string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(gin.Logger())
	r.engine.Use(middleware.CORS(corsOrigins))

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	api := r.engine.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
		authRoutes.POST("/refresh", r.authHandler.Refresh)
	}

	// Public form reads, anonymous submission, template and preview. Filling
	// out a published form must not require an account.
	api.GET("/forms", r.formHandler.List)
	api.GET("/forms/:id", r.formHandler.Get)
	api.GET("/forms/import/template", r.importHandler.Template)
	api.POST("/forms/import/excel/preview", r.importHandler.Preview)
	api.POST("/submissions/:formId/submissions", r.submissionHandler.Create)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		// Current user
		protected.GET("/auth/me", r.authHandler.Me)
		protected.PUT("/auth/me", r.authHandler.UpdateMe)
		protected.POST("/auth/change-password", r.authHandler.ChangePassword)

		// API keys
		protected.POST("/auth/api-keys", r.authHandler.CreateAPIKey)
		protected.GET("/auth/api-keys", r.authHandler.ListAPIKeys)
		protected.DELETE("/auth/api-keys/:keyId", r.authHandler.RevokeAPIKey)

		// Form management
		protected.POST("/forms", r.authMiddleware.RequireScope(auth.ScopeWrite), r.formHandler.Create)
		protected.PUT("/forms/:id", r.authMiddleware.RequireScope(auth.ScopeWrite), r.formHandler.Update)
		protected.DELETE("/forms/:id", r.authMiddleware.RequireScope(auth.ScopeDelete), r.formHandler.Delete)

		// Excel import (preview above stays public)
		protected.POST("/forms/import/excel", r.authMiddleware.RequireScope(auth.ScopeWrite), r.importHandler.Import)

		// Submission retrieval
		protected.GET("/submissions/:formId", r.authMiddleware.RequireScope(auth.ScopeRead), r.submissionHandler.List)
		protected.GET("/submissions/:formId/export", r.authMiddleware.RequireScope(auth.ScopeRead), r.submissionHandler.ExportCSV)

		// AI collaborator
		ai := protected.Group("/ai")
		{
			ai.POST("/test-prompt", r.aiHandler.TestPrompt)
			ai.POST("/generate-form", r.aiHandler.GenerateForm)
		}
	}
}
