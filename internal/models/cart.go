package models

import "time"

// Cart 购物车，主键为客户端持有的 UUID v4
type Cart struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`        // 购物车ID
	Version   uint64    `gorm:"not null;default:0" json:"version"`            // 内容版本，每次商品项变化递增
	CreatedAt time.Time `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                   // 更新时间
	Items     []Item    `gorm:"foreignKey:CartID;references:ID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
