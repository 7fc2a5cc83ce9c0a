package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

const (
	APIKeyHeader = "x-api-key"
	apiKeyCtxKey = "api_key"
)

// RequireAPIKey rejects requests whose x-api-key header is missing or shorter
// than minLength. The key is stored on the gin context for handlers.
func RequireAPIKey(minLength int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if err := service.ValidateAPIKey(key, minLength); err != nil {
			abortWithError(c, service.ErrInvalidAPIKey)
			return
		}

		c.Set(apiKeyCtxKey, key)
		c.Next()
	}
}

// APIKey returns the key stored by RequireAPIKey.
func APIKey(c *gin.Context) string {
	return c.GetString(apiKeyCtxKey)
}

// MaskedAPIKey is the key as it may appear in logs.
func MaskedAPIKey(c *gin.Context) string {
	return logger.MaskSecret(APIKey(c))
}
