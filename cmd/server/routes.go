package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orbit.backend/internal/interfaces/http/handlers"
	"orbit.backend/internal/interfaces/http/middleware"
)

const (
	serviceName    = "orbit-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	storefrontHandler    *handlers.StorefrontHandler
	themeHandler         *handlers.ThemeHandler
	storeHandler         *handlers.StoreHandler
	customizationHandler *handlers.CustomizationHandler
	authMiddleware       gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Public routes consumed by the storefront renderer
		v1.GET("/storefront/resolve", d.storefrontHandler.Resolve)
		v1.GET("/themes", d.themeHandler.ListThemeFamilies)
		v1.GET("/themes/resolve", d.themeHandler.ResolveTheme)

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/onboarding/funnel", d.storeHandler.GetOnboardingFunnel)

			admin.GET("/stores", d.storeHandler.ListStores)
			admin.POST("/stores", d.storeHandler.CreateStore)
			admin.GET("/stores/:id", d.storeHandler.GetStore)
			admin.POST("/stores/:id/provision", d.storeHandler.MarkProvisioned)
			admin.POST("/stores/:id/onboarding/advance", d.storeHandler.AdvanceOnboarding)
			admin.POST("/stores/:id/onboarding/block", d.storeHandler.BlockOnboarding)
			admin.POST("/stores/:id/onboarding/unblock", d.storeHandler.UnblockOnboarding)
			admin.POST("/stores/:id/onboarding/complete", d.storeHandler.CompleteOnboarding)
			admin.POST("/stores/:id/deactivate", d.storeHandler.DeactivateStore)
			admin.POST("/stores/:id/activate", d.storeHandler.ActivateStore)

			admin.GET("/stores/:id/customization", d.customizationHandler.GetCustomization)
			admin.PUT("/stores/:id/customization", d.customizationHandler.UpdateCustomization)
			admin.POST("/stores/:id/customization/refresh", d.customizationHandler.RefreshCustomization)
		}
	}
}

// registerDevRoutes mounts development-only helpers outside /api/v1
func registerDevRoutes(r *gin.Engine, preview *handlers.PreviewHandler) {
	dev := r.Group("/dev")
	dev.GET("/preview", preview.Resolve)
}
