package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerError 处理器错误，Message 返回给客户端，Cause 只进日志
type HandlerError struct {
	Status  int
	Message string
	Cause   error
}

// NewHandlerError 创建处理器错误，非错误状态码按 500 处理
func NewHandlerError(status int, message string, cause error) *HandlerError {
	if status < http.StatusBadRequest {
		status = CodeInternal
	}
	return &HandlerError{Status: status, Message: message, Cause: cause}
}

func (e *HandlerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Cause
}

// ServerSide 是否为服务端故障
func (e *HandlerError) ServerSide() bool {
	return e.Status >= http.StatusInternalServerError
}

// Write 输出错误响应
func (e *HandlerError) Write(c *gin.Context) {
	Error(c, e.Status, e.Message)
}
