package catalog

import (
	"net/http"

	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	lookup Lookup
}

func NewController(lookup Lookup) *Controller {
	return &Controller{lookup: lookup}
}

// ListServices handles GET /api/services
func (c *Controller) ListServices(ctx *gin.Context) {
	services, err := c.lookup.ListActiveServices(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to load services")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"services": services,
	})
}
