package models

import (
	"time"
)

// Item 购物车项，(cart_id, product_id) 唯一
type Item struct {
	ID        uint      `gorm:"primarykey" json:"-"`                                                                  // 主键
	CartID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`     // 购物车ID
	ProductID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"` // 商品ID
	Name      *string   `gorm:"type:varchar(255)" json:"name"`                                                        // 商品名称
	Price     *Money    `gorm:"type:decimal(20,2)" json:"price"`                                                      // 商品价格
	CreatedAt time.Time `json:"created_at"`                                                                           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                           // 更新时间
}

// TableName 指定表名
func (Item) TableName() string {
	return "cart_items"
}

// SameAttributes 判断名称与价格是否与给定值一致
func (i *Item) SameAttributes(name *string, price *Money) bool {
	if i == nil {
		return false
	}
	if (i.Name == nil) != (name == nil) {
		return false
	}
	if i.Name != nil && *i.Name != *name {
		return false
	}
	return MoneyPtrEqual(i.Price, price)
}
