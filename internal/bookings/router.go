package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking routes. The admin routes must be
// mounted behind the JWT middleware by the caller.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, adminAuth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking) // POST /api/bookings

		admin := bookings.Group("", adminAuth)
		{
			admin.GET("/:id", controller.GetBooking)             // GET /api/bookings/:id
			admin.PATCH("/:id/status", controller.UpdateStatus)  // PATCH /api/bookings/:id/status
		}
	}
}
