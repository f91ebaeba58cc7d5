package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/observability/metrics"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
)

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware sets conservative security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// CallerID extracts the rate-limit identity: the authenticated user id
// when present, otherwise the client network address.
func CallerID(c *gin.Context) string {
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		return userID
	}
	return c.ClientIP()
}

// RateLimitMiddleware declines requests over the caller's sliding
// window budget with 429 and the window reset time.
func RateLimitMiddleware(limiter ports.RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Check(c.Request.Context(), CallerID(c))
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err))
			// Fail open: the guard protects upstream budgets, it is not
			// an auth boundary.
			c.Next()
			return
		}
		if !decision.Allowed {
			if m := metrics.Get(); m != nil {
				m.RateLimitRejectionsTotal.Add(c.Request.Context(), 1)
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":    "Rate limit exceeded. Please try again later.",
				"reset_at": decision.ResetAt,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
