package reminders

import (
	"net/http"

	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SendReminders handles GET /api/cron/send-reminders. The route is mounted
// behind the cron bearer-token middleware.
func (c *Controller) SendReminders(ctx *gin.Context) {
	results, err := c.service.SendReminders(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to send reminders")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}
