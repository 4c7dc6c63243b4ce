// internal/app/router.go
package app

import (
	"net/http"

	"cms-admin/internal/config"
	authHandler "cms-admin/internal/handlers/auth"
	categoryHandler "cms-admin/internal/handlers/category"
	contentHandler "cms-admin/internal/handlers/content"
	dashboardHandler "cms-admin/internal/handlers/dashboard"
	wsHandler "cms-admin/internal/handlers/websocket"
	"cms-admin/internal/middleware"
	"cms-admin/internal/pkg/guard"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	ContentHandler   *contentHandler.ContentHandler
	CategoryHandler  *categoryHandler.CategoryHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, cfg config.AppConfig, h *Handlers) {
	r.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)
	if cfg.OTelEnabled {
		r.Use(otelgin.Middleware(serviceName))
	}

	toHome := func(c *gin.Context) {
		c.Redirect(http.StatusFound, guard.HomePath)
	}

	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Session ====================
	r.GET("/session", h.AuthHandler.GetSession)
	r.POST("/logout", h.AuthHandler.Logout)

	// ==================== Entry Pages ====================
	entry := r.Group("")
	entry.Use(h.AuthMiddleware.Entry())
	{
		entry.GET(guard.LoginPath, h.AuthHandler.LoginPage)
		entry.POST(guard.LoginPath, h.AuthHandler.Login)
		entry.GET(guard.RegisterPath, h.AuthHandler.RegisterPage)
		entry.POST(guard.RegisterPath, h.AuthHandler.Register)
	}

	// ==================== Protected Views ====================
	protected := r.Group("")
	protected.Use(h.AuthMiddleware.Guard())
	{
		protected.GET(guard.HomePath, h.DashboardHandler.Overview)
		protected.GET("/ws/stats", h.WSHandler.GetStats)

		contents := protected.Group("/contents")
		{
			contents.GET("", h.ContentHandler.List)
			contents.GET("/new", h.ContentHandler.NewForm)
			contents.POST("/new", h.ContentHandler.Create)
			contents.GET("/edit/:id", h.ContentHandler.EditForm)
			contents.PUT("/edit/:id", h.ContentHandler.Update)
			contents.DELETE("/edit/:id", h.ContentHandler.Delete)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", h.CategoryHandler.List)
			categories.POST("", h.CategoryHandler.Create)
			categories.GET("/:id", h.CategoryHandler.Get)
			categories.PUT("/:id", h.CategoryHandler.Update)
			categories.DELETE("/:id", h.CategoryHandler.Delete)
		}
	}

	// ==================== Fallbacks ====================
	r.GET("/", toHome)
	r.NoRoute(toHome)
}
