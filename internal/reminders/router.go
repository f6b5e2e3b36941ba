package reminders

import (
	"github.com/gin-gonic/gin"
)

// SetupReminderRoutes configures the cron-triggered reminder route behind
// the provided bearer-token middleware.
func SetupReminderRoutes(rg *gin.RouterGroup, controller *Controller, cronAuth gin.HandlerFunc) {
	cronGroup := rg.Group("/cron", cronAuth)
	{
		cronGroup.GET("/send-reminders", controller.SendReminders) // GET /api/cron/send-reminders
	}
}
