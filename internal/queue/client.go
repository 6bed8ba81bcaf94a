package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/constants"
	"github.com/cart-tracker/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 加购任务投递的队列
	DefaultQueue = constants.QueueDefault

	defaultMaxRetry    = 5
	defaultTaskTimeout = 30 * time.Second
	defaultConcurrency = 10
)

// Client 加购任务投递端
type Client struct {
	inner    *asynq.Client
	taskOpts []asynq.Option
}

// NewClient 创建队列客户端，未启用时返回只丢弃任务的空客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{
		inner:    asynq.NewClient(redisOpt(cfg)),
		taskOpts: taskOptions(cfg),
	}, nil
}

// taskOptions 每个加购任务的队列、重试与超时
func taskOptions(cfg *config.QueueConfig) []asynq.Option {
	maxRetry := defaultMaxRetry
	if cfg.MaxRetry > 0 {
		maxRetry = cfg.MaxRetry
	}
	timeout := defaultTaskTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(timeout),
	}
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// DispatchAddItem 投递购物车项写入任务
func (c *Client) DispatchAddItem(ctx context.Context, payload CartAddItemPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCartAddItemTask(payload)
	if err != nil {
		return err
	}
	info, err := c.inner.EnqueueContext(ctx, task, c.taskOpts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskCartAddItem, err)
	}
	logger.Debugw("queue_task_enqueued",
		"task_id", info.ID,
		"queue", info.Queue,
		"cart_id", payload.CartID,
		"product_id", payload.ProductID,
	)
	return nil
}

// BuildServerConfig 生成消费端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.S(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"task_type", task.Type(),
				"retry", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
