package service

import (
	"strings"

	"github.com/google/uuid"
)

// IDGenerator 生成新的购物车ID
type IDGenerator func() uuid.UUID

// NormalizeCartID 校验并规范化购物车ID，仅接受 RFC 4122 UUID v4
func NormalizeCartID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", false
	}
	if id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return "", false
	}
	return id.String(), true
}

// ResolveCartID 选取本次请求使用的购物车ID
// 只要请求带了 Cookie 就以 Cookie 为准，即使值为空；没有 Cookie 时取请求体。
// 选中的值无效时生成新ID，generated 表示是否为新生成
func ResolveCartID(gen IDGenerator, cookieValue *string, bodyValue string) (cartID string, generated bool) {
	candidate := bodyValue
	if cookieValue != nil {
		candidate = *cookieValue
	}
	if id, ok := NormalizeCartID(candidate); ok {
		return id, false
	}
	if gen == nil {
		gen = uuid.New
	}
	return gen().String(), true
}
