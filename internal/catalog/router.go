package catalog

import (
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures the public service catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	services := rg.Group("/services")
	{
		services.GET("", controller.ListServices) // GET /api/services
	}
}
