package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/provider"
	"github.com/cart-tracker/internal/queue"
	"github.com/cart-tracker/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartAddItem, c.handleCartAddItem)
}

func (c *Consumer) handleCartAddItem(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_add_item_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.Container == nil || c.CartService == nil {
		return errors.New("cart service not initialized")
	}
	payload, err := queue.ParseCartAddItemPayload(task)
	if err != nil {
		logger.Warnw("worker_cart_add_item_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	outcome, err := c.CartService.AddItemFromPayload(ctx, payload)
	if err != nil {
		if isInvalidCartPayload(err) {
			logger.Warnw("worker_cart_add_item_skip_invalid_payload",
				"cart_id", payload.CartID,
				"product_id", payload.ProductID,
				"error", err,
			)
			return nil
		}
		logger.Warnw("worker_cart_add_item_failed",
			"cart_id", payload.CartID,
			"product_id", payload.ProductID,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_cart_add_item_done",
		"cart_id", payload.CartID,
		"product_id", payload.ProductID,
		"outcome", outcome,
	)
	return nil
}

func isInvalidCartPayload(err error) bool {
	return errors.Is(err, service.ErrCartIDInvalid) ||
		errors.Is(err, service.ErrProductIDRequired) ||
		errors.Is(err, service.ErrPriceInvalid)
}
