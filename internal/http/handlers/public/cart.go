package public

import (
	"time"

	"github.com/cart-tracker/internal/constants"
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemResponse 购物车项响应
type CartItemResponse struct {
	ProductID string        `json:"product_id"`
	Name      *string       `json:"name"`
	Price     *models.Money `json:"price"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CartResponse 购物车响应，购物车不存在时 cart_id 为 null
type CartResponse struct {
	CartID *string            `json:"cart_id"`
	Items  []CartItemResponse `json:"items"`
}

// GetCart 获取当前购物车
func (h *Handler) GetCart(c *gin.Context) {
	raw, err := c.Cookie(h.cartCookieName())
	if err != nil || raw == "" {
		raw = c.Query(constants.CartIDField)
	}
	cartID, ok := service.NormalizeCartID(raw)
	if !ok {
		response.Success(c, emptyCartResponse())
		return
	}

	cart, err := h.CartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		respondError(c, response.CodeInternal, msgCartFetchFailed, err)
		return
	}
	if cart == nil {
		response.Success(c, emptyCartResponse())
		return
	}
	c.Set(constants.CartIDContextKey, cart.ID)

	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}
	id := cart.ID
	response.Success(c, CartResponse{CartID: &id, Items: items})
}

func emptyCartResponse() CartResponse {
	return CartResponse{Items: make([]CartItemResponse, 0)}
}
