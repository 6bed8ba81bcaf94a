package public

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cart-tracker/internal/constants"
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// looseString 同时接受 JSON 字符串与数字
type looseString string

// UnmarshalJSON 数字按字面量保留，其余非字符串类型视为无效
func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = looseString(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*s = looseString(number.String())
	return nil
}

// AddItemRequest 加购请求，支持 JSON 与表单
type AddItemRequest struct {
	ProductID looseString  `json:"product_id" form:"product_id"`
	Name      *string      `json:"name" form:"name"`
	Price     *looseString `json:"price" form:"price"`
	CartID    string       `json:"cart_id" form:"cart_id"`
}

// AddItemResponse 加购响应
type AddItemResponse struct {
	CartID string `json:"cart_id"`
}

// AddItem 记录加购行为并回写购物车ID
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, response.CodeBadRequest, msgBodyInvalid, nil)
		return
	}

	var cookieCartID *string
	if value, err := c.Cookie(h.cartCookieName()); err == nil {
		cookieCartID = &value
	}
	var price *string
	if req.Price != nil {
		raw := string(*req.Price)
		price = &raw
	}
	result, err := h.TrackerService.Track(c.Request.Context(), service.TrackInput{
		CookieCartID: cookieCartID,
		BodyCartID:   req.CartID,
		ProductID:    string(req.ProductID),
		Name:         req.Name,
		Price:        price,
	})
	if err != nil {
		respondWithMappedError(c, err, addItemErrorRules, response.CodeInternal, msgEnqueueFailed)
		return
	}

	c.Set(constants.CartIDContextKey, result.CartID)
	h.setCartCookie(c, result.CartID)
	response.Success(c, AddItemResponse{CartID: result.CartID})
}

func (h *Handler) cartCookieName() string {
	if h.Config != nil {
		if name := strings.TrimSpace(h.Config.Cart.CookieName); name != "" {
			return name
		}
	}
	return constants.CartIDCookieName
}

func (h *Handler) setCartCookie(c *gin.Context, cartID string) {
	maxAge, path, domain := 0, "/", ""
	secure, httpOnly := false, false
	if h.Config != nil {
		cfg := h.Config.Cart
		maxAge = cfg.CookieMaxAgeSeconds
		if strings.TrimSpace(cfg.CookiePath) != "" {
			path = cfg.CookiePath
		}
		domain = cfg.CookieDomain
		secure = cfg.CookieSecure
		httpOnly = cfg.CookieHTTPOnly
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cartCookieName(), cartID, maxAge, path, domain, secure, httpOnly)
}
