package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"dently/internal/shared/config"
	"dently/internal/shared/utils/response"
	"dently/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// JWTAuth guards admin-only routes with a bearer access token.
func JWTAuth(cfg config.JWTConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.RespondError(c, http.StatusUnauthorized, response.KindUnauthorized, "authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			log.LogAuthFailure(c.Request.Context(), "invalid or expired token", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, response.KindUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondError(c, http.StatusUnauthorized, response.KindUnauthorized, "invalid token claims")
			c.Abort()
			return
		}
		if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
			response.RespondError(c, http.StatusUnauthorized, response.KindUnauthorized, "invalid token type")
			c.Abort()
			return
		}
		if role, ok := claims["role"]; !ok || role != "admin" {
			response.RespondError(c, http.StatusForbidden, response.KindUnauthorized, "insufficient permissions")
			c.Abort()
			return
		}

		c.Set("admin_email", claims["email"])
		c.Next()
	}
}

// CronAuth guards the cron endpoints with a shared bearer secret.
func CronAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.LogAuthFailure(c.Request.Context(), "invalid cron token", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, response.KindUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
