package availability

import (
	"github.com/gin-gonic/gin"
)

// SetupAvailabilityRoutes configures the public availability routes
func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/availability", controller.GetAvailability) // GET /api/availability?date=YYYY-MM-DD
}
