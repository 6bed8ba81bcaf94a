package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/provider"
	"github.com/cart-tracker/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const testCartID = "9b2f3c4d-1e5a-4f6b-8c7d-0e1f2a3b4c5d"

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate cart models failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewConsumer(provider.NewContainerWith(&config.Config{}, db, nil)), db
}

func countItems(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Item{}).Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	return count
}

func TestHandleCartAddItemUpsertsOnce(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	name := "pants"
	price := "50.00"
	task, err := queue.NewCartAddItemTask(queue.CartAddItemPayload{
		CartID:    testCartID,
		ProductID: "prodid",
		Name:      &name,
		Price:     &price,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := consumer.handleCartAddItem(context.Background(), task); err != nil {
			t.Fatalf("handle task #%d failed: %v", i+1, err)
		}
	}
	if got := countItems(t, db); got != 1 {
		t.Fatalf("item count want 1 got %d", got)
	}
}

func TestHandleCartAddItemMalformedPayloadSkipsRetry(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	err := consumer.handleCartAddItem(context.Background(), asynq.NewTask(queue.TaskCartAddItem, []byte("{not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry got %v", err)
	}
}

func TestHandleCartAddItemDropsInvalidPayload(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	cases := []queue.CartAddItemPayload{
		{CartID: "not-a-uuid", ProductID: "prodid"},
		{CartID: testCartID, ProductID: ""},
	}
	for _, payload := range cases {
		task, err := queue.NewCartAddItemTask(payload)
		if err != nil {
			t.Fatalf("build task failed: %v", err)
		}
		if err := consumer.handleCartAddItem(context.Background(), task); err != nil {
			t.Fatalf("invalid payload should be dropped without error, got %v", err)
		}
	}
	if got := countItems(t, db); got != 0 {
		t.Fatalf("item count want 0 got %d", got)
	}
}

func TestHandleCartAddItemReturnsDatabaseError(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	if err := db.Migrator().DropTable(&models.Item{}); err != nil {
		t.Fatalf("drop items table failed: %v", err)
	}
	task, err := queue.NewCartAddItemTask(queue.CartAddItemPayload{CartID: testCartID, ProductID: "prodid"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	err = consumer.handleCartAddItem(context.Background(), task)
	if err == nil {
		t.Fatalf("database error should be returned for retry")
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("database error should be retried")
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("disabled queue should not build worker service")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should not build worker service")
	}
}

func TestTaskLogMiddlewarePassesResultThrough(t *testing.T) {
	boom := errors.New("db down")
	task := asynq.NewTask(queue.TaskCartAddItem, nil)

	calls := 0
	failing := taskLogMiddleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		calls++
		return boom
	}))
	if err := failing.ProcessTask(context.Background(), task); !errors.Is(err, boom) {
		t.Fatalf("want handler error got %v", err)
	}
	ok := taskLogMiddleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		calls++
		return nil
	}))
	if err := ok.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("want nil got %v", err)
	}
	if calls != 2 {
		t.Fatalf("wrapped handler should run once per task, calls=%d", calls)
	}
}
