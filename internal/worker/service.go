package worker

import (
	"context"
	"errors"
	"time"

	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/queue"

	"github.com/hibiken/asynq"
)

// ErrQueueDisabled 队列未启用时无法启动消费进程
var ErrQueueDisabled = errors.New("queue disabled")

// Service 消费购物车写入任务的 asynq 进程
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建消费进程并注册任务处理器
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	mux.Use(taskLogMiddleware)
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(opt, serverCfg), mux: mux}, nil
}

// taskLogMiddleware 记录每个任务的耗时与结果
func taskLogMiddleware(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := next.ProcessTask(ctx, task)
		fields := []interface{}{"task_type", task.Type(), "latency_ms", time.Since(start).Milliseconds()}
		if id, ok := asynq.GetTaskID(ctx); ok {
			fields = append(fields, "task_id", id)
		}
		if err != nil {
			logger.Warnw("worker_task_failed", append(fields, "error", err)...)
			return err
		}
		logger.Debugw("worker_task_done", fields...)
		return nil
	})
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费并阻塞到 ctx 结束
// 信号由 Runner 统一处理，这里不使用 asynq 自带的信号等待
func (s *Service) Start(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束后关闭消费者
func (s *Service) Stop(context.Context) error {
	s.server.Shutdown()
	return nil
}
