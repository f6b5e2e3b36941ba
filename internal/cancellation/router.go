package cancellation

import (
	"github.com/gin-gonic/gin"
)

// SetupCancellationRoutes configures the public cancellation route
func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/bookings/:id/cancel", controller.CancelBooking) // POST /api/bookings/:id/cancel
}
