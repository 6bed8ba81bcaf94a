package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cart-tracker/internal/cache"
	"github.com/cart-tracker/internal/constants"
	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/queue"
	"github.com/cart-tracker/internal/repository"

	"gorm.io/gorm"
)

// AddItemInput 购物车项写入输入
type AddItemInput struct {
	CartID    string
	ProductID string
	Name      *string
	Price     *models.Money
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	cacheTTL time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, cacheTTL time.Duration) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		cacheTTL: cacheTTL,
	}
}

// AddItem 写入购物车项
// 购物车不存在时创建；商品项不存在时创建，名称或价格变化时原地更新，否则不做处理。
// 重复执行与并发执行结果一致，返回 created / updated / unchanged。
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (string, error) {
	cartID, ok := NormalizeCartID(input.CartID)
	if !ok {
		return "", ErrCartIDInvalid
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return "", ErrProductIDRequired
	}

	outcome := constants.ItemUpsertUnchanged
	err := s.cartRepo.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		cartCreated, err := repo.EnsureCart(cartID)
		if err != nil {
			return fmt.Errorf("ensure cart: %w", err)
		}
		if cartCreated {
			logger.Debugw("cart_created", "cart_id", cartID)
		}

		existing, err := repo.FindItem(cartID, productID)
		if err != nil {
			return fmt.Errorf("find item: %w", err)
		}
		if existing == nil {
			item := &models.Item{
				CartID:    cartID,
				ProductID: productID,
				Name:      input.Name,
				Price:     input.Price,
			}
			if err := repo.CreateItem(item); err != nil {
				return fmt.Errorf("create item: %w", err)
			}
			outcome = constants.ItemUpsertCreated
			return repo.BumpCartVersion(cartID)
		}
		if existing.SameAttributes(input.Name, input.Price) {
			return nil
		}
		if err := repo.UpdateItemAttributes(existing, input.Name, input.Price); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		outcome = constants.ItemUpsertUpdated
		return repo.BumpCartVersion(cartID)
	})
	if err != nil {
		return "", err
	}

	if outcome != constants.ItemUpsertUnchanged {
		s.refreshCache(ctx, cartID)
	}
	return outcome, nil
}

// refreshCache 写入提交后的购物车快照，失败时删除旧快照
func (s *CartService) refreshCache(ctx context.Context, cartID string) {
	if !cache.Enabled() {
		return
	}
	cart, err := s.cartRepo.GetCart(cartID)
	if err == nil && cart != nil {
		if _, err = cache.SetCart(ctx, cart, s.cacheTTL); err == nil {
			return
		}
	}
	logger.Warnw("cart_cache_refresh_failed", "cart_id", cartID, "error", err)
	if err := cache.DelCart(ctx, cartID); err != nil {
		logger.Warnw("cart_cache_invalidate_failed", "cart_id", cartID, "error", err)
	}
}

// AddItemFromPayload 从队列载荷写入购物车项
func (s *CartService) AddItemFromPayload(ctx context.Context, payload queue.CartAddItemPayload) (string, error) {
	input := AddItemInput{
		CartID:    payload.CartID,
		ProductID: payload.ProductID,
		Name:      payload.Name,
	}
	if payload.Price != nil {
		price, err := models.ParseMoney(*payload.Price)
		if err != nil {
			return "", ErrPriceInvalid
		}
		input.Price = &price
	}
	return s.AddItem(ctx, input)
}

// GetCart 获取购物车，优先读取缓存；购物车不存在时返回 nil
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	normalized, ok := NormalizeCartID(cartID)
	if !ok {
		return nil, ErrCartIDInvalid
	}
	if cached, hit, err := cache.GetCart(ctx, normalized); err == nil && hit && cached != nil {
		return cached, nil
	} else if err != nil {
		logger.Warnw("cart_cache_read_failed", "cart_id", normalized, "error", err)
	}

	cart, err := s.cartRepo.GetCart(normalized)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}
	stored, err := cache.SetCart(ctx, cart, s.cacheTTL)
	if err != nil {
		logger.Warnw("cart_cache_write_failed", "cart_id", normalized, "error", err)
	} else if !stored {
		logger.Debugw("cart_cache_write_skipped", "cart_id", normalized, "version", cart.Version)
	}
	return cart, nil
}
