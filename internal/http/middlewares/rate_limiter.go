package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/geocoder89/postboard/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit enforces the limiter per derived key. Limiter failures (Redis
// briefly down) let the request through rather than taking the API down
// with them.
func RateLimit(limiter ratelimit.Limiter, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		decision, err := limiter.Allow(c.Request.Context(), key)

		if err != nil {
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})

			return
		}

		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	// Normalize a host:port form if one slips through

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
