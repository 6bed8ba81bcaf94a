package constants

// QueueDefault 默认队列名称
const QueueDefault = "default"

// 异步任务类型常量
const (
	TaskCartAddItem = "cart:add_item"
)

// 购物车 Cookie 与参数常量
const (
	CartIDCookieName = "cart_id"
	CartIDField      = "cart_id"
	// CartIDContextKey gin 上下文中记录本次请求购物车ID的键
	CartIDContextKey = "cart_id"
)

// 购物车项写入结果
const (
	ItemUpsertCreated   = "created"
	ItemUpsertUpdated   = "updated"
	ItemUpsertUnchanged = "unchanged"
)

// 运行环境常量
const (
	ServerModeDebug   = "debug"
	ServerModeRelease = "release"
)
