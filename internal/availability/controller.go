package availability

import (
	"errors"
	"net/http"

	"dently/internal/calendar"
	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetAvailability handles GET /api/availability?date=YYYY-MM-DD
func (c *Controller) GetAvailability(ctx *gin.Context) {
	date := ctx.Query("date")
	if date == "" {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"date": "query parameter is required (YYYY-MM-DD)",
		})
		return
	}

	availability, err := c.service.GetAvailableSlots(ctx.Request.Context(), date)
	if errors.Is(err, ErrInvalidDate) {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"date": "must match format YYYY-MM-DD",
		})
		return
	}
	if errors.Is(err, calendar.ErrNotConfigured) {
		response.RespondError(ctx, http.StatusServiceUnavailable, response.KindUnavailable, "calendar integration is not configured")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to compute availability")
		return
	}

	ctx.JSON(http.StatusOK, availability)
}
