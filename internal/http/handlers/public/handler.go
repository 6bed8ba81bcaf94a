package public

import "github.com/cart-tracker/internal/provider"

// Handler 公开接口处理器入口
// 说明：购物车跟踪接口无需登录，购物车由 Cookie 或请求体中的 cart_id 标识。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
