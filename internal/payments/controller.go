package payments

import (
	"errors"
	"net/http"

	"dently/internal/pending"
	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePayment handles GET|POST /api/payments/create?pendingBookingId=...
func (c *Controller) CreatePayment(ctx *gin.Context) {
	pendingBookingID := ctx.Query("pendingBookingId")
	if pendingBookingID == "" {
		response.RespondValidationError(ctx, http.StatusBadRequest, map[string]string{
			"pendingBookingId": "query parameter is required",
		})
		return
	}

	paymentURL, transID, err := c.service.CreateSession(ctx.Request.Context(), pendingBookingID)
	if errors.Is(err, pending.ErrNotFound) {
		response.RespondError(ctx, http.StatusNotFound, response.KindNotFound, "booking session expired or not found, please start over")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusBadGateway, response.KindUpstream, "failed to create payment session")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"paymentUrl": paymentURL,
		"transId":    transID,
	})
}

// HandleComgateWebhook handles POST /api/webhooks/comgate. The gateway
// expects a plain code=0 acknowledgement; detailed failures are logged
// server-side and never echoed to the caller.
func (c *Controller) HandleComgateWebhook(ctx *gin.Context) {
	var notification WebhookNotification
	if err := ctx.ShouldBind(&notification); err != nil {
		ctx.String(http.StatusBadRequest, "code=1&message=invalid+request")
		return
	}

	if err := c.service.HandleWebhook(ctx.Request.Context(), &notification); err != nil {
		// Non-2xx makes the gateway retry the delivery, which is what we
		// want for transient verification or materialization failures.
		ctx.String(http.StatusInternalServerError, "code=1&message=error")
		return
	}

	ctx.String(http.StatusOK, "code=0&message=OK")
}
