package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/infra/ratelimit"
	"meeting-room-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errs.New("rate limit exceeded")

// AllowRequest consumes one token for key and writes the rate-limit headers.
// It aborts with 429 and returns false when the bucket is empty. A limiter
// failure lets the request through.
func AllowRequest(c *gin.Context, limiter ratelimit.Limiter, key string) bool {
	d, err := limiter.Allow(c.Request.Context(), key)
	if err != nil {
		slog.Warn("rate limiter unavailable", "key", key, "error", err.Error())
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

	if !d.Allowed {
		secs := int(math.Ceil(d.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(secs))
		httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited,
			"Too many access attempts", gin.H{"retry_after": secs})
		return false
	}
	return true
}
