package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "taskboard/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests. Waiters
// give up when their request context ends.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return pass
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, "", "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
