package queue

import (
	"context"
	"testing"
	"time"

	"github.com/cart-tracker/internal/config"

	"github.com/hibiken/asynq"
)

func TestDisabledClientEnqueueIsNoop(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	if client.Enabled() {
		t.Fatalf("nil config should produce disabled client")
	}
	if err := client.DispatchAddItem(context.Background(), CartAddItemPayload{CartID: "c", ProductID: "p"}); err != nil {
		t.Fatalf("disabled enqueue should not fail: %v", err)
	}
}

func TestCartAddItemTaskRoundTrip(t *testing.T) {
	name := "pants"
	price := "50.00"
	task, err := NewCartAddItemTask(CartAddItemPayload{
		CartID:    "3f0c2f8e-6c55-4b3f-9d0e-2f6b7a1c9d11",
		ProductID: "prodid",
		Name:      &name,
		Price:     &price,
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCartAddItem {
		t.Fatalf("task type want %s got %s", TaskCartAddItem, task.Type())
	}
	payload, err := ParseCartAddItemPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.ProductID != "prodid" || payload.Name == nil || *payload.Name != "pants" || payload.Price == nil || *payload.Price != "50.00" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != defaultConcurrency {
		t.Fatalf("concurrency want %d got %d", defaultConcurrency, cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("default queue weight want 1 got %d", cfg.Queues[DefaultQueue])
	}
}

func TestTaskOptionsApplyConfig(t *testing.T) {
	opts := taskOptions(&config.QueueConfig{MaxRetry: 2, TimeoutSeconds: 5})
	got := map[asynq.OptionType]interface{}{}
	for _, opt := range opts {
		got[opt.Type()] = opt.Value()
	}
	if got[asynq.QueueOpt] != DefaultQueue {
		t.Fatalf("queue want %s got %v", DefaultQueue, got[asynq.QueueOpt])
	}
	if got[asynq.MaxRetryOpt] != 2 {
		t.Fatalf("max retry want 2 got %v", got[asynq.MaxRetryOpt])
	}
	if got[asynq.TimeoutOpt] != 5*time.Second {
		t.Fatalf("timeout want 5s got %v", got[asynq.TimeoutOpt])
	}

	defaults := map[asynq.OptionType]interface{}{}
	for _, opt := range taskOptions(&config.QueueConfig{}) {
		defaults[opt.Type()] = opt.Value()
	}
	if defaults[asynq.MaxRetryOpt] != defaultMaxRetry || defaults[asynq.TimeoutOpt] != defaultTaskTimeout {
		t.Fatalf("unexpected default task options: %v", defaults)
	}
}

func TestRedisOptWithoutConfig(t *testing.T) {
	if opt := redisOpt(nil); opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("default addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
}
