package provider

import (
	"time"

	"github.com/catalog-next/internal/authz"
	"github.com/catalog-next/internal/cache"
	"github.com/catalog-next/internal/config"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/models"
	"github.com/catalog-next/internal/queue"
	"github.com/catalog-next/internal/repository"
	"github.com/catalog-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	OperatorRepo          repository.OperatorRepository
	ProductRepo           repository.ProductRepository
	CouponRepo            repository.CouponRepository
	CouponApplicationRepo repository.CouponApplicationRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	CaptchaService  *service.CaptchaService
	ProductService  *service.ProductService
	CouponService   *service.CouponService
	DiscountService *service.DiscountService
	CatalogService  *service.CatalogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于指定数据库构建容器，测试可直接注入
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories(db)
	c.initServices(db)
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.OperatorRepo = repository.NewOperatorRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponApplicationRepo = repository.NewCouponApplicationRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	if c.Config.Auth.Enabled {
		authzService, err := authz.NewService(db)
		if err != nil {
			logger.Errorw("provider_init_authz_failed", "error", err)
			panic(err)
		}
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
			panic(err)
		}
		c.AuthzService = authzService
	}

	var scheduler service.DiscountExpireScheduler
	if c.QueueClient != nil && c.QueueClient.Enabled() {
		scheduler = c.QueueClient
	}

	c.AuthService = service.NewAuthService(c.Config.Auth, c.OperatorRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, time.Duration(c.Config.Discount.CouponCacheSeconds)*time.Second)
	c.DiscountService = service.NewDiscountService(c.ProductRepo, c.CouponRepo, c.CouponApplicationRepo, scheduler, c.Config.Discount.AutoExpire)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.Config.Catalog.DefaultLimit, c.Config.Catalog.MaxLimit)
}
