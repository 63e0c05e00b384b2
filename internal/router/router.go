package router

import (
	"fmt"
	"strings"

	"github.com/kaddo-next/internal/cache"
	"github.com/kaddo-next/internal/config"
	adminhandlers "github.com/kaddo-next/internal/http/handlers/admin"
	publichandlers "github.com/kaddo-next/internal/http/handlers/public"
	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "kaddo"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 支付网关回调与状态页不依赖店面子域名
	r.POST("/webhook/payment", publicHandler.PaymentWebhook)
	r.GET("/check/:payment_id", publicHandler.PaymentCheck)
	r.GET("/bevestig/:hash", publicHandler.Confirmation)
	r.GET("/voucher/:hash", publicHandler.VoucherPage)

	apiV1 := r.Group("/api/v1")
	{
		// 店面接口（按 Host 子域名路由到经销商）
		shop := apiV1.Group("/shop")
		shop.Use(StorefrontMiddleware(c.DistributorService))
		{
			shop.GET("/storefront", publicHandler.Storefront)
			shop.GET("/templates", publicHandler.ActiveTemplates)
			shop.POST("/orders", publicHandler.Purchase)
		}

		// 后台接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login",
				RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")),
				adminHandler.Login)

			authed := admin.Group("")
			authed.Use(StaffAuthMiddleware(c.AuthService))
			{
				authed.GET("/templates/form", adminHandler.TemplateFormSummary)
				authed.GET("/templates/latest", adminHandler.LatestTemplates)
				authed.POST("/templates/publish", adminHandler.PublishTemplates)

				authed.POST("/orders/query", adminHandler.QueryOrders)
				authed.GET("/orders/:id", adminHandler.OrderDetail)

				authed.GET("/profile", adminHandler.Profile)
				authed.PUT("/profile", adminHandler.UpdateProfile)

				authed.GET("/scanner/voucher", adminHandler.ScannerLookup)
				authed.POST("/scanner/redeem", adminHandler.Redeem)
			}
		}
	}

	return r
}
