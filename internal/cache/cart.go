package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cart-tracker/internal/models"

	"github.com/redis/go-redis/v9"
)

const defaultCartCacheTTL = 5 * time.Minute

const (
	cartFieldVersion = "version"
	cartFieldData    = "data"
)

// setCartScript 仅当快照版本不低于已缓存版本时写入
var setCartScript = redis.NewScript(`
local current = redis.call("HGET", KEYS[1], "version")
if current and tonumber(current) > tonumber(ARGV[1]) then
	return 0
end
redis.call("HSET", KEYS[1], "version", ARGV[1], "data", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", strings.ToLower(strings.TrimSpace(cartID)))
}

// GetCart 获取购物车快照
func GetCart(ctx context.Context, cartID string) (*models.Cart, bool, error) {
	if !Enabled() || strings.TrimSpace(cartID) == "" {
		return nil, false, nil
	}
	val, err := redisClient.HGet(ctx, buildKey(cartKey(cartID)), cartFieldData).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, false, err
	}
	return &cart, true, nil
}

// SetCart 写入购物车快照，返回是否写入
// 已缓存的快照版本更高时放弃写入，避免慢读回填覆盖较新的内容
func SetCart(ctx context.Context, cart *models.Cart, ttl time.Duration) (bool, error) {
	if !Enabled() || cart == nil || strings.TrimSpace(cart.ID) == "" {
		return false, nil
	}
	if ttl <= 0 {
		ttl = defaultCartCacheTTL
	}
	payload, err := json.Marshal(cart)
	if err != nil {
		return false, err
	}
	stored, err := setCartScript.Run(ctx, redisClient,
		[]string{buildKey(cartKey(cart.ID))},
		cart.Version, payload, ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// DelCart 删除购物车快照
func DelCart(ctx context.Context, cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return nil
	}
	return Del(ctx, cartKey(cartID))
}
