package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "ct"
	pingTimeout      = 2 * time.Second
)

// 进程内共享的 Redis 连接，购物车快照与限流计数共用
var (
	redisClient *redis.Client
	redisPrefix = defaultKeyPrefix
)

// InitRedis 按配置创建 Redis 客户端，未启用时关闭缓存
// 启动时 Redis 不可达只记录告警，读写会在运行期各自降级
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		Use(nil, "")
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("cache_redis_ping_failed", "addr", client.Options().Addr, "error", err)
	}
	Use(client, cfg.Prefix)
	return nil
}

// Use 注入已创建的 Redis 客户端，client 为 nil 时关闭缓存
func Use(client *redis.Client, prefix string) {
	redisPrefix = strings.TrimSpace(prefix)
	if redisPrefix == "" {
		redisPrefix = defaultKeyPrefix
	}
	redisClient = client
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return redisClient != nil
}

// Client 获取 Redis 客户端，未启用时返回 nil
func Client() *redis.Client {
	return redisClient
}

// Close 关闭 Redis 客户端
func Close() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(ctx, buildKey(key)).Err()
}

// BuildKey 生成带前缀的缓存 key，如 ct:cart:<id>
func BuildKey(key string) string {
	return buildKey(key)
}

func buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return redisPrefix
	}
	return redisPrefix + ":" + trimmed
}
