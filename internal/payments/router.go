package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures the payment and webhook routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		payments.GET("/create", controller.CreatePayment)  // GET /api/payments/create?pendingBookingId=...
		payments.POST("/create", controller.CreatePayment) // POST /api/payments/create?pendingBookingId=...
	}

	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/comgate", controller.HandleComgateWebhook) // POST /api/webhooks/comgate
	}
}
