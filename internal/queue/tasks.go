package queue

import (
	"encoding/json"

	"github.com/cart-tracker/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartAddItem 购物车项写入任务
	TaskCartAddItem = constants.TaskCartAddItem
)

// CartAddItemPayload 购物车项写入任务载荷
// 价格以十进制字符串传递，避免浮点精度丢失
type CartAddItemPayload struct {
	CartID    string  `json:"cart_id"`
	ProductID string  `json:"product_id"`
	Name      *string `json:"name"`
	Price     *string `json:"price"`
}

// NewCartAddItemTask 创建购物车项写入任务
func NewCartAddItemTask(payload CartAddItemPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartAddItem, body), nil
}

// ParseCartAddItemPayload 解析购物车项写入任务载荷
func ParseCartAddItemPayload(task *asynq.Task) (CartAddItemPayload, error) {
	var payload CartAddItemPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
