package offers

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOfferRoutes registers the public offer endpoints
func SetupOfferRoutes(rg *gin.RouterGroup, controller *Controller) {
	offers := rg.Group("/offers")
	{
		offers.GET("", controller.ListActive)
		offers.POST("/validate", controller.ValidateCoupon)
	}
}

// SetupAdminOfferRoutes registers the JWT-guarded admin endpoints
func SetupAdminOfferRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin/offers")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateOffer)
		admin.DELETE("/:id", controller.DeleteOffer)
	}
}
