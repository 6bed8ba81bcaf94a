package shared

import (
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应。
// 服务端故障按 error 级别记录原因，客户端错误只在有原因时记 warn。
func RespondError(c *gin.Context, code int, msg string, err error) {
	herr := response.NewHandlerError(code, msg, err)
	switch {
	case herr.ServerSide():
		RequestLog(c).Errorw("handler_error", "status", herr.Status, "message", herr.Message, "error", err)
	case err != nil:
		RequestLog(c).Warnw("handler_rejected", "status", herr.Status, "message", herr.Message, "error", err)
	}
	herr.Write(c)
}
