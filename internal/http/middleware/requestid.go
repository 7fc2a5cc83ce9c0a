package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/id"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID assigns every request a snowflake id, echoes it in the response
// header and seeds the log fields so all later log lines carry it.
// Must run after id.Init.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := id.New()
		c.Header(RequestIDHeader, id.String(requestID))

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: &requestID,
			Component: "relay.http",
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
