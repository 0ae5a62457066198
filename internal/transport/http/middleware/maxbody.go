package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "taskboard/internal/transport/http/response"
)

// MaxBodyBytes caps request bodies at n bytes. Reads past the cap fail, which
// surfaces as a binding error in the handler.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	if n <= 0 {
		return pass
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				resp.Error(http.StatusRequestEntityTooLarge, "", "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
