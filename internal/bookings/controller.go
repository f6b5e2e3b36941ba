package bookings

import (
	"errors"
	"net/http"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req BookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, response.FieldErrors(err))
		return
	}

	result, err := c.service.SubmitBooking(ctx.Request.Context(), &req)
	if errors.Is(err, catalog.ErrServiceNotFound) {
		response.RespondError(ctx, http.StatusNotFound, response.KindNotFound, "service not found")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusBadGateway, response.KindUpstream, "failed to create booking")
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /api/bookings/:id (admin)
func (c *Controller) GetBooking(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"id": "must be a valid UUID",
		})
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), eventID)
	if errors.Is(err, calendar.ErrEventNotFound) {
		response.RespondError(ctx, http.StatusNotFound, response.KindNotFound, "booking not found")
		return
	}
	if errors.Is(err, calendar.ErrNotConfigured) {
		response.RespondError(ctx, http.StatusServiceUnavailable, response.KindUnavailable, "calendar integration is not configured")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to load booking")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}

// UpdateStatus handles PATCH /api/bookings/:id/status (admin)
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"id": "must be a valid UUID",
		})
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, response.FieldErrors(err))
		return
	}
	if !req.Status.IsValid() {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"status": "must be one of PENDING_PAYMENT, PAID, NO_SHOW, CANCELLED",
		})
		return
	}

	booking, err := c.service.UpdateStatus(ctx.Request.Context(), eventID, req.Status)
	if errors.Is(err, calendar.ErrEventNotFound) {
		response.RespondError(ctx, http.StatusNotFound, response.KindNotFound, "booking not found")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to update booking status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}
