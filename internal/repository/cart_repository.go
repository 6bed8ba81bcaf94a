package repository

import (
	"context"
	"time"

	"github.com/cart-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	EnsureCart(cartID string) (bool, error)
	GetCart(cartID string) (*models.Cart, error)
	BumpCartVersion(cartID string) error
	FindItem(cartID, productID string) (*models.Item, error)
	CreateItem(item *models.Item) error
	UpdateItemAttributes(item *models.Item, name *string, price *models.Money) error
	ListItems(cartID string) ([]models.Item, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	db := r.db
	if ctx != nil {
		db = db.WithContext(ctx)
	}
	return db.Transaction(fn)
}

// EnsureCart 不存在时创建购物车，返回是否新建
func (r *GormCartRepository) EnsureCart(cartID string) (bool, error) {
	cart := &models.Cart{ID: cartID}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(cart)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetCart 获取购物车及其商品项，不存在时返回 nil
func (r *GormCartRepository) GetCart(cartID string) (*models.Cart, error) {
	var carts []models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("id = ?", cartID).Limit(1).Find(&carts).Error
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, nil
	}
	return &carts[0], nil
}

// BumpCartVersion 递增购物车内容版本
func (r *GormCartRepository) BumpCartVersion(cartID string) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"version":    gorm.Expr("version + ?", 1),
		"updated_at": time.Now(),
	}).Error
}

// FindItem 按购物车与商品查找购物车项，不存在时返回 nil
func (r *GormCartRepository) FindItem(cartID, productID string) (*models.Item, error) {
	var item models.Item
	result := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Limit(1).Find(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &item, nil
}

// CreateItem 创建购物车项
// 并发插入同一 (cart_id, product_id) 时以最后写入的名称与价格为准
func (r *GormCartRepository) CreateItem(item *models.Item) error {
	if item == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "updated_at"}),
	}).Create(item).Error
}

// UpdateItemAttributes 更新购物车项名称与价格
func (r *GormCartRepository) UpdateItemAttributes(item *models.Item, name *string, price *models.Money) error {
	if item == nil || item.ID == 0 {
		return nil
	}
	now := time.Now()
	updates := map[string]interface{}{
		"name":       name,
		"price":      price,
		"updated_at": now,
	}
	if err := r.db.Model(&models.Item{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return err
	}
	item.Name = name
	item.Price = price
	item.UpdatedAt = now
	return nil
}

// ListItems 获取购物车下的全部商品项
func (r *GormCartRepository) ListItems(cartID string) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Where("cart_id = ?", cartID).Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
