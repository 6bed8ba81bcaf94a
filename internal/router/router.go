package router

import (
	"fmt"
	"strings"

	"github.com/cart-tracker/internal/cache"
	"github.com/cart-tracker/internal/config"
	publichandlers "github.com/cart-tracker/internal/http/handlers/public"
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	// 限流与日志使用的客户端 IP 只信任配置内的代理转发头
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warnw("router_trusted_proxies_invalid", "error", err)
	}

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ct"
	}
	trackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:items", redisPrefix),
		WindowSeconds: cfg.Security.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RateLimit.MaxRequests,
	}
	trackLimiter := NewRateLimiter(cache.Client(), trackRule).Middleware()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 加购跟踪
	r.POST("/items/", trackLimiter, publicHandler.AddItem)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/items", trackLimiter, publicHandler.AddItem)
		apiV1.GET("/cart", publicHandler.GetCart)
	}

	// 健康检查
	r.GET("/healthz", publicHandler.Healthz)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	return r
}
