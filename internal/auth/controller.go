package auth

import (
	"errors"
	"net/http"

	"dently/internal/shared/utils/response"
	"dently/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

// Login handles POST /api/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(ctx, http.StatusBadRequest, response.FieldErrors(err))
		return
	}

	result, err := c.service.Login(ctx.Request.Context(), &req)
	if errors.Is(err, ErrInvalidCredentials) {
		c.log.LogAuthFailure(ctx.Request.Context(), "invalid credentials", ctx.ClientIP())
		response.RespondError(ctx, http.StatusUnauthorized, response.KindUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, response.KindInternal, "failed to log in")
		return
	}

	ctx.JSON(http.StatusOK, result)
}
