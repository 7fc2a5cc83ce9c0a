package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/dto"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

// Recovery turns a panic into the 500 failure envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				stack := string(debug.Stack())

				slog.ErrorContext(ctx, "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", stack,
				)

				abortWithError(c, &service.Error{
					Kind:    service.KindTransport,
					Status:  http.StatusInternalServerError,
					Message: "Server error",
					Details: fmt.Sprint(err),
				})
			}
		}()
		c.Next()
	}
}

func abortWithError(c *gin.Context, err *service.Error) {
	c.AbortWithStatusJSON(err.Status, dto.ToErrorResponse(err))
}
