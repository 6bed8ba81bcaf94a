package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultRateLimitMessage = "too many requests, retry in %d seconds"

// fixedWindowScript 返回 {窗口内计数, 剩余秒数}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	Message       string
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(clientIP string) string {
	if r.Prefix == "" {
		return clientIP
	}
	return r.Prefix + ":" + clientIP
}

func (r RateLimitRule) message(wait time.Duration) string {
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = defaultRateLimitMessage
	}
	if strings.Contains(msg, "%d") {
		return fmt.Sprintf(msg, int(wait/time.Second))
	}
	return msg
}

// RateLimiter 按客户端 IP 计数的 Redis 限流器
// 计数 key 只取连接 IP，客户端可控的购物车ID 不参与，轮换ID无法绕过限额
type RateLimiter struct {
	client *redis.Client
	rule   RateLimitRule
}

// NewRateLimiter 创建限流器，client 为 nil 或规则未配置时不限流
func NewRateLimiter(client *redis.Client, rule RateLimitRule) *RateLimiter {
	return &RateLimiter{client: client, rule: rule}
}

// Allow 记录一次请求，超过限额时返回需要等待的时长
func (l *RateLimiter) Allow(ctx context.Context, clientIP string) (bool, time.Duration, error) {
	if l.client == nil || !l.rule.active() {
		return true, 0, nil
	}
	values, err := fixedWindowScript.Run(ctx, l.client, []string{l.rule.key(clientIP)}, l.rule.WindowSeconds).Int64Slice()
	if err != nil {
		return true, 0, err
	}
	if len(values) != 2 {
		return true, 0, fmt.Errorf("unexpected rate limit reply: %v", values)
	}
	if values[0] <= int64(l.rule.MaxRequests) {
		return true, 0, nil
	}
	wait := values[1]
	if wait < 1 {
		wait = int64(l.rule.WindowSeconds)
	}
	return false, time.Duration(wait) * time.Second, nil
}

// Middleware 返回 gin 中间件，Redis 不可用时放行
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		allowed, wait, err := l.Allow(c.Request.Context(), clientIP)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "client_ip", clientIP, "error", err)
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(wait/time.Second)))
			response.Error(c, response.CodeTooManyRequests, l.rule.message(wait))
			c.Abort()
			return
		}
		c.Next()
	}
}
