package provider

import (
	"time"

	"github.com/cart-tracker/internal/cache"
	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/queue"
	"github.com/cart-tracker/internal/repository"
	"github.com/cart-tracker/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	CartRepo repository.CartRepository

	// Services
	CartService    *service.CartService
	TrackerService *service.TrackerService
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

	return NewContainerWith(cfg, models.DB, queueClient)
}

// NewContainerWith 使用给定数据库与队列客户端初始化容器
// queueClient 为空或未启用时购物车写入在请求内同步执行
func NewContainerWith(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.CartRepo = repository.NewCartRepository(c.DB)
}

func (c *Container) initServices() {
	cacheTTL := time.Duration(c.Config.Cart.CacheTTLSeconds) * time.Second
	c.CartService = service.NewCartService(c.CartRepo, cacheTTL)

	var dispatcher service.ItemDispatcher
	if c.QueueClient.Enabled() {
		dispatcher = c.QueueClient
	} else {
		logger.Warnw("provider_queue_disabled_inline_dispatch")
		dispatcher = service.NewInlineDispatcher(c.CartService)
	}
	c.TrackerService = service.NewTrackerService(dispatcher, nil)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
