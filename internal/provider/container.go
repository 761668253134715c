package provider

import (
	"time"

	"github.com/vendortrack/internal/cache"
	"github.com/vendortrack/internal/config"
	"github.com/vendortrack/internal/logger"
	"github.com/vendortrack/internal/models"
	"github.com/vendortrack/internal/queue"
	"github.com/vendortrack/internal/repository"
	"github.com/vendortrack/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	VendorRepo      repository.VendorRepository
	OrderRepo       repository.PurchaseOrderRepository
	PerformanceRepo repository.PerformanceRepository

	// Services
	AuthService        *service.AuthService
	VendorService      *service.VendorService
	OrderService       *service.OrderService
	MetricsService     *service.MetricsService
	PerformanceService *service.PerformanceService
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

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.OrderRepo = repository.NewPurchaseOrderRepository(db)
	c.PerformanceRepo = repository.NewPerformanceRepository(db)
}

func (c *Container) initServices() {
	cacheTTL := time.Duration(c.Config.Performance.CacheTTLSeconds) * time.Second

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.MetricsService = service.NewMetricsService(c.OrderRepo, c.VendorRepo)
	c.VendorService = service.NewVendorService(c.VendorRepo, cacheTTL)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.VendorRepo, c.MetricsService, c.QueueClient)
	c.PerformanceService = service.NewPerformanceService(c.VendorRepo, c.PerformanceRepo)
}
