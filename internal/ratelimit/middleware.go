package ratelimit

import (
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openfolio/portfolio-backend/internal/auth"
)

// Middleware enforces limit hits per window per caller. Authenticated
// requests are keyed by user id, anonymous ones by client IP. The bucket
// name keeps differently-configured route groups from sharing counters.
// When the store itself fails the request is let through: the limiter
// protects the service, it must not take it down.
func Middleware(store Store, bucket string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if user, ok := auth.Principal(c); ok {
			identifier = user.ID
		}

		allowed, retryAfter, err := store.Hit(c.Request.Context(), bucket+":"+identifier, limit, window)
		if err != nil {
			log.Printf("rate limit store error: %v", err)
			c.Next()
			return
		}

		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "Too many requests. Please try again later.",
				"retryAfter": seconds,
			})
			return
		}

		c.Next()
	}
}
