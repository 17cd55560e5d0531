package auth

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the auth endpoints
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", controller.Login)
	}
}
