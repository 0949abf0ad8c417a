package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/metrics"
	"brokerdesk/internal/middleware"
	"brokerdesk/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Client   *handler.ClientHandler
	Document *handler.DocumentHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Options toggles optional surfaces of the engine.
type Options struct {
	AllowedOrigins []string
	Metrics        bool
	Swagger        bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stored files by public path, as linked from document fields.
	r.GET("/uploads/*path", h.Document.Uploads)

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT (header or token query parameter)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.GET("/auth/me", h.Auth.Me)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// User management
	users := protected.Group("/users")
	users.Use(adminOnly)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.PATCH("/:id/status", h.User.SetStatus)
	users.DELETE("/:id", h.User.Delete)

	// Clients
	clients := protected.Group("/clients")
	clients.GET("", h.Client.List)
	clients.POST("", h.Client.Create)
	clients.GET("/export", h.Client.Export)
	clients.POST("/search", h.Client.Search)
	clients.POST("/with-documents", h.Client.CreateWithDocuments)
	clients.GET("/:id", h.Client.GetByID)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)
	clients.PUT("/:id/with-documents", h.Client.UpdateWithDocuments)

	// Client documents; :name is a document type or a file name depending on the route.
	clients.GET("/:id/documents", h.Document.List)
	clients.POST("/:id/documents", h.Document.Upload)
	clients.GET("/:id/documents/:name", h.Document.View)
	clients.DELETE("/:id/documents/:name", h.Document.Delete)
	clients.GET("/:id/documents/:name/download", h.Document.Download)
	clients.GET("/:id/documents/:name/access", h.Document.Access)

	protected.POST("/documents/temp", h.Document.UploadTemp)
	protected.GET("/test-file-access", h.Document.TestFileAccess)
	protected.GET("/repair-all-documents", adminOnly, h.Document.RepairAll)
	protected.POST("/repair-all-documents", adminOnly, h.Document.RepairAll)

	// Dashboards
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/overview", h.Stats.Overview)
	dashboard.GET("/admin", adminOnly, h.Stats.AdminOverview)

	return r
}
