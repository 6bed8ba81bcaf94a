package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/queue"
)

// ItemDispatcher 购物车写入任务分发
type ItemDispatcher interface {
	DispatchAddItem(ctx context.Context, payload queue.CartAddItemPayload) error
}

// InlineDispatcher 在当前进程内同步执行写入，队列关闭时使用
type InlineDispatcher struct {
	cartService *CartService
}

// NewInlineDispatcher 创建同步分发器
func NewInlineDispatcher(cartService *CartService) *InlineDispatcher {
	return &InlineDispatcher{cartService: cartService}
}

// DispatchAddItem 直接执行购物车项写入
func (d *InlineDispatcher) DispatchAddItem(ctx context.Context, payload queue.CartAddItemPayload) error {
	if d == nil || d.cartService == nil {
		return fmt.Errorf("inline dispatcher not initialized")
	}
	_, err := d.cartService.AddItemFromPayload(ctx, payload)
	return err
}

// TrackInput 购物车跟踪请求输入
type TrackInput struct {
	CookieCartID *string // 请求未携带 Cookie 时为 nil
	BodyCartID   string
	ProductID    string
	Name         *string
	Price        *string
}

// TrackResult 购物车跟踪结果
type TrackResult struct {
	CartID    string
	Generated bool
}

// TrackerService 接收加购请求并分发异步写入
type TrackerService struct {
	dispatcher ItemDispatcher
	newID      IDGenerator
}

// NewTrackerService 创建跟踪服务，newID 为空时使用随机 UUID v4
func NewTrackerService(dispatcher ItemDispatcher, newID IDGenerator) *TrackerService {
	return &TrackerService{
		dispatcher: dispatcher,
		newID:      newID,
	}
}

// Track 解析购物车ID并分发写入任务
func (s *TrackerService) Track(ctx context.Context, input TrackInput) (*TrackResult, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, ErrProductIDRequired
	}
	var price *string
	if input.Price != nil && strings.TrimSpace(*input.Price) != "" {
		parsed, err := models.ParseMoney(*input.Price)
		if err != nil {
			return nil, ErrPriceInvalid
		}
		normalized := parsed.String()
		price = &normalized
	}

	cartID, generated := ResolveCartID(s.newID, input.CookieCartID, input.BodyCartID)
	payload := queue.CartAddItemPayload{
		CartID:    cartID,
		ProductID: productID,
		Name:      input.Name,
		Price:     price,
	}
	if s.dispatcher == nil {
		return nil, ErrDispatchFailed
	}
	if err := s.dispatcher.DispatchAddItem(ctx, payload); err != nil {
		logger.Errorw("cart_item_dispatch_failed", "cart_id", cartID, "product_id", productID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	logger.Debugw("cart_item_dispatched", "cart_id", cartID, "product_id", productID, "generated_cart_id", generated)
	return &TrackResult{CartID: cartID, Generated: generated}, nil
}
