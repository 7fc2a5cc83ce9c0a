package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

// BodyLimit caps request bodies at maxBytes. Requests declaring a larger
// Content-Length are rejected up front; chunked bodies fail while being read
// and the handler maps the *http.MaxBytesError to 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, service.ErrRequestBodyTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
