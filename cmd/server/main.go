package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/id"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/otel"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/core/config"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/middleware"
	httprouter "github.com/pczin9531-tech/RobloxStudioMobileApi/internal/http/router"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/opencloud"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/ratelimit"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet: OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "relay starting", "env", cfg.Env, "service", cfg.OTel.ServiceName, "version", cfg.Version)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	limiter, redisClient, err := setupLimiter(ctx, cfg.RateLimit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up rate limiter", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	cloud, err := opencloud.NewClient(opencloud.Config{
		BaseURL: cfg.OpenCloud.BaseURL,
		Timeout: cfg.OpenCloud.Timeout,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create open cloud client", "error", err)
		os.Exit(1)
	}

	services := service.NewServices(service.ServicesConfig{
		OpenCloud: cloud,
		URLs: service.URLConfig{
			WebURL:     cfg.OpenCloud.WebURL,
			CreatorURL: cfg.OpenCloud.CreatorURL,
		},
		MinAPIKeyLength: cfg.MinAPIKeyLength,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := setupRouter(cfg, services, limiter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up router", "error", err)
		os.Exit(1)
	}

	// create makes two sequential upstream calls, each bounded by the upstream timeout.
	writeTimeout := 2*cfg.OpenCloud.Timeout + 30*time.Second
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting",
			"port", cfg.Port,
			"health", "http://localhost:"+cfg.Port+"/health",
			"publish", "http://localhost:"+cfg.Port+"/api/v1/publish",
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()
	slog.InfoContext(ctx, "ready to receive requests")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// setupLimiter returns a Redis backed limiter when REDIS_URL is set so every
// replica shares one window, and an in-process limiter otherwise.
func setupLimiter(ctx context.Context, cfg config.RateLimitConfig) (ratelimit.Limiter, *redis.Client, error) {
	if !cfg.Shared() {
		slog.InfoContext(ctx, "rate limiter using memory", "max", cfg.Max, "window", cfg.Window)
		return ratelimit.NewMemoryLimiter(cfg.Max, cfg.Window), nil, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.InfoContext(ctx, "redis connected", "prefix", cfg.RedisPrefix, "max", cfg.Max, "window", cfg.Window)

	limiter, err := ratelimit.NewRedisLimiter(redisClient, cfg.RedisPrefix, cfg.Max, cfg.Window)
	if err != nil {
		redisClient.Close()
		return nil, nil, err
	}
	return limiter, redisClient, nil
}

func setupRouter(cfg config.Config, services *service.Services, limiter ratelimit.Limiter) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}

	// Order matters: OTel creates span → Recovery catches panics → RequestID seeds log fields → Logger logs with both
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Version:      cfg.Version,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Limiter:      limiter,
	})

	return router, nil
}

const banner = `
██████╗ ███████╗██╗      █████╗ ██╗   ██╗    ███████╗███████╗██████╗ ██╗   ██╗███████╗██████╗ 
██╔══██╗██╔════╝██║     ██╔══██╗╚██╗ ██╔╝    ██╔════╝██╔════╝██╔══██╗██║   ██║██╔════╝██╔══██╗
██████╔╝█████╗  ██║     ███████║ ╚████╔╝     ███████╗█████╗  ██████╔╝██║   ██║█████╗  ██████╔╝
██╔══██╗██╔══╝  ██║     ██╔══██║  ╚██╔╝      ╚════██║██╔══╝  ██╔══██╗╚██╗ ██╔╝██╔══╝  ██╔══██╗
██║  ██║███████╗███████╗██║  ██║   ██║       ███████║███████╗██║  ██║ ╚████╔╝ ███████╗██║  ██║
╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝   ╚═╝       ╚══════╝╚══════╝╚═╝  ╚═╝  ╚═══╝  ╚══════╝╚═╝  ╚═╝
`
