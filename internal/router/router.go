package router

import (
	"fmt"
	"strings"

	"github.com/vendortrack/internal/cache"
	"github.com/vendortrack/internal/config"
	apihandlers "github.com/vendortrack/internal/http/handlers/api"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vt"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 登录接口（无需鉴权）
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), handler.Login)
		}

		// 业务接口（需鉴权）
		authed := apiV1.Group("")
		authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			authed.GET("/vendors", handler.ListVendors)
			authed.POST("/vendors", handler.CreateVendor)
			authed.GET("/vendors/:id", handler.GetVendor)
			authed.PUT("/vendors/:id", handler.UpdateVendor)
			authed.DELETE("/vendors/:id", handler.DeleteVendor)
			authed.GET("/vendors/:id/performance", handler.GetVendorPerformance)
			authed.POST("/vendors/:id/performance/snapshot", handler.CaptureSnapshot)
			authed.GET("/vendors/:id/history", handler.GetVendorHistory)
			authed.POST("/vendors/:id/metrics/rebuild", handler.RebuildVendorMetrics)

			authed.GET("/purchase_orders", handler.ListOrders)
			authed.POST("/purchase_orders", handler.CreateOrder)
			authed.GET("/purchase_orders/:id", handler.GetOrder)
			authed.PUT("/purchase_orders/:id", handler.UpdateOrder)
			authed.DELETE("/purchase_orders/:id", handler.DeleteOrder)
			authed.POST("/purchase_orders/:id/acknowledge", handler.AcknowledgeOrder)
		}
	}

	return r
}
