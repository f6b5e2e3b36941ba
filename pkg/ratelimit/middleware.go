package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"dently/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware applies the rate limit matching the request's traffic class.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Redis being down must not take the API down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	// Server-to-server payment callbacks retry aggressively; keep them loose
	case strings.Contains(path, "/webhooks/"):
		return RateLimitTypeWebhook

	// Booking submission, payment creation and cancellation
	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/payments/"):
		return RateLimitTypeBooking

	// Admin and auth surface
	case strings.Contains(path, "/auth/"),
		strings.Contains(path, "/cron/"):
		return RateLimitTypeAdmin

	// Public browsing endpoints
	case strings.Contains(path, "/availability"),
		strings.Contains(path, "/services"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts the real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
