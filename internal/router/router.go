package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/catalog-next/internal/authz"
	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	adminhandlers "github.com/catalog-next/internal/http/handlers/admin"
	publichandlers "github.com/catalog-next/internal/http/handlers/public"
	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/运营分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "catalog"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:operator_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon_apply", redisPrefix),
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CouponRateLimit.BlockSeconds,
		Message:       "too many coupon attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/coupons/:code", publicHandler.GetCoupon)

		admin := apiV1.Group("/admin")
		{
			// 未启用鉴权时运营接口直接开放
			if cfg.Auth.Enabled {
				admin.GET("/captcha/image", publicHandler.GetImageCaptcha)
				admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.OperatorLogin)
				admin.Use(OperatorAuthMiddleware(c.AuthService), OperatorRBACMiddleware(c.AuthzService))
			}

			// 商品管理
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PATCH("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.POST("/products/:id/restore", adminHandler.RestoreProduct)

			// 折扣
			admin.POST("/products/:id/discount/coupon", RateLimitMiddleware(redisClient, couponRule, KeyByIP), adminHandler.ApplyCoupon)
			admin.DELETE("/products/:id/discount", adminHandler.RemoveDiscount)
			admin.GET("/products/:id/discount/history", adminHandler.GetDiscountHistory)

			// 优惠券
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.GET("/coupons", adminHandler.GetCoupons)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			admin.GET("/roles", adminHandler.GetRoles)
			admin.GET("/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// 无需授权的运营端路由
var publicAdminPaths = map[string]bool{
	"/api/v1/admin/login":         true,
	"/api/v1/admin/captcha/image": true,
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") || publicAdminPaths[item.Path] {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
