package auth

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configures the admin authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", controller.Login) // POST /api/auth/login
	}
}
