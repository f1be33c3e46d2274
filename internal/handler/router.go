package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashestree87/socialize/internal/domain"
	"github.com/ashestree87/socialize/pkg/middleware"
)

// RouterConfig holds everything the HTTP surface needs
type RouterConfig struct {
	JWTSecret string

	Auth     *AuthHandler
	Tenant   *TenantHandler
	Role     *RoleHandler
	Platform *PlatformHandler
	Upload   *UploadHandler
	Health   *HealthHandler
	// File is nil when the S3 driver serves downloads directly
	File *FileHandler
}

// SetupRoutes wires all routes onto the engine. Tenant and role
// management require the admin role; everything else under /api/v1
// requires a valid token.
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.RequestID())

	router.GET("/health", cfg.Health.Health)
	router.GET("/ready", cfg.Health.Ready)

	if cfg.File != nil {
		router.GET("/files/*key", cfg.File.Download)
	}

	v1 := router.Group("/api/v1")

	v1.POST("/register", cfg.Auth.Register)
	v1.POST("/login", cfg.Auth.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(&middleware.JWTConfig{Secret: cfg.JWTSecret}))
	{
		protected.GET("/user", cfg.Auth.Me)
		protected.POST("/logout", cfg.Auth.Logout)

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(domain.RoleSlugAdmin))
		{
			admin.POST("/tenants", cfg.Tenant.Create)
			admin.GET("/tenants", cfg.Tenant.List)
			admin.GET("/tenants/:id", cfg.Tenant.GetByID)
			admin.PUT("/tenants/:id", cfg.Tenant.Update)
			admin.DELETE("/tenants/:id", cfg.Tenant.Delete)

			admin.POST("/roles", cfg.Role.Create)
			admin.GET("/roles", cfg.Role.List)
			admin.GET("/roles/:id", cfg.Role.GetByID)
			admin.PUT("/roles/:id", cfg.Role.Update)
			admin.DELETE("/roles/:id", cfg.Role.Delete)
			admin.POST("/roles/assign", cfg.Role.Assign)
			admin.POST("/roles/remove", cfg.Role.Remove)
		}

		protected.POST("/social-platforms", cfg.Platform.Create)
		protected.GET("/social-platforms", cfg.Platform.List)
		protected.GET("/social-platforms/:id", cfg.Platform.GetByID)
		protected.PUT("/social-platforms/:id", cfg.Platform.Update)
		protected.DELETE("/social-platforms/:id", cfg.Platform.Delete)

		protected.POST("/content-uploads", cfg.Upload.Create)
		protected.GET("/content-uploads", cfg.Upload.List)
		protected.GET("/content-uploads/:id", cfg.Upload.GetByID)
		protected.PUT("/content-uploads/:id", cfg.Upload.Update)
		protected.DELETE("/content-uploads/:id", cfg.Upload.Delete)
		protected.GET("/content-uploads/:id/download", cfg.Upload.Download)
		protected.POST("/content-uploads/:id/publish", cfg.Upload.Publish)
	}
}
