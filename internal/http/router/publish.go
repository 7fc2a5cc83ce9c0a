package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/handler"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
)

func PublishRouter(router *gin.RouterGroup, h *handler.PublishHandler, maxBodyBytes int64) {
	router.POST("/publish", middleware.BodyLimit(maxBodyBytes), h.Publish)
	router.GET("/places", h.Places)
}
