package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards the mutating admin routes with a bearer-token
// compare against token. If token is empty, auth is a no-op, matching
// local/dev wiring with AW_ADMIN_TOKEN unset.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		presented := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing admin token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware limits request rates based on IP address.
func RateLimitMiddleware() gin.HandlerFunc {
	limits := make(map[string]int)
	lastReset := time.Now()
	resetInterval := time.Minute * 15
	maxRequests := 100

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if time.Since(lastReset) > resetInterval {
			limits = make(map[string]int)
			lastReset = time.Now()
		}

		if limits[ip] >= maxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		limits[ip]++
		c.Next()
	}
}
