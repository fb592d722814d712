package routes

import (
	"net/http"
	"time"

	"afrimobile/handlers"
	"afrimobile/middleware"
	"afrimobile/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterKYCRoutes registers the KYC link lifecycle endpoints.
func RegisterKYCRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/kyc")
	{
		// Public endpoints: webhook authenticates by signature, link status
		// carries no user data beyond what the provider exposes.
		api.POST("/webhook/smileid", hb.SmileWebhookHandler)
		api.GET("/link-status/:linkId", hb.LinkStatusHandler)

		// Protected routes (require authentication).
		protected := api.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		protected.POST("/create-link", hb.CreateLinkHandler)
		protected.POST("/create-bulk-links", hb.CreateBulkLinksHandler)
		protected.GET("/status/:userId", hb.UserKYCStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Hi, I'm AfriMobile",
			"services": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Signature", "X-Timestamp"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterKYCRoutes(r, hb)
	RegisterHealthRoute(r)
}
