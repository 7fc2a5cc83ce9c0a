package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/handler"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/ratelimit"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

type RouterConfig struct {
	Version      string
	MaxBodyBytes int64

	// Limiter guards every /api route. Nil disables rate limiting.
	Limiter ratelimit.Limiter
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	statusHandler := handler.NewStatusHandler(cfg.Version)
	router.GET("/", statusHandler.Root)
	router.GET("/health", statusHandler.Health)

	api := router.Group("/api")
	if cfg.Limiter != nil {
		limit := middleware.RateLimit(cfg.Limiter)
		api.Use(limit)
		// unmatched /api paths skip group middleware but still count
		router.NoRoute(middleware.UnderPath("/api", limit), statusHandler.NotFound)
	} else {
		router.NoRoute(statusHandler.NotFound)
	}

	v1 := api.Group("/v1")
	v1.Use(middleware.RequireAPIKey(services.MinAPIKeyLength()))
	{
		publishHandler := handler.NewPublishHandler(services.Publish())
		PublishRouter(v1, publishHandler, cfg.MaxBodyBytes)
	}
}
