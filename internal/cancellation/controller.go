package cancellation

import (
	"errors"
	"net/http"

	"dently/internal/calendar"
	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CancelRequest is the cancellation payload. Both fields are optional;
// skipEmail exists for receptionist-driven cancellations that are
// communicated in person.
type CancelRequest struct {
	Reason    string `json:"reason" binding:"max=500"`
	SkipEmail bool   `json:"skipEmail"`
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CancelBooking handles POST /api/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"id": "must be a valid UUID",
		})
		return
	}

	var req CancelRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondValidationError(ctx, http.StatusBadRequest, response.FieldErrors(err))
			return
		}
	}

	result, err := c.service.Cancel(ctx.Request.Context(), bookingID, req.Reason, req.SkipEmail)
	if errors.Is(err, calendar.ErrEventNotFound) {
		response.RespondError(ctx, http.StatusNotFound, response.KindNotFound, "booking not found")
		return
	}
	if errors.Is(err, ErrAlreadyCancelled) {
		response.RespondError(ctx, http.StatusConflict, response.KindConflict, "booking is already cancelled")
		return
	}
	if errors.Is(err, calendar.ErrNotConfigured) {
		response.RespondError(ctx, http.StatusServiceUnavailable, response.KindUnavailable, "calendar integration is not configured")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to cancel booking")
		return
	}

	message := "Rezervace byla zrušena. Kauce v tomto případě propadá."
	if result.RefundEligible {
		message = "Rezervace byla zrušena. Kauce Vám bude vrácena."
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": result,
		"message": message,
	})
}
