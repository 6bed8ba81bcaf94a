package public

import (
	"errors"

	handlershared "github.com/cart-tracker/internal/http/handlers/shared"
	"github.com/cart-tracker/internal/http/response"
	"github.com/cart-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgProductIDMissing = "missing parameter: product_id"
	msgPriceInvalid     = "invalid parameter: price"
	msgBodyInvalid      = "invalid request body"
	msgEnqueueFailed    = "failed to enqueue cart item"
	msgCartFetchFailed  = "failed to fetch cart"
	msgDatabaseDown     = "database unavailable"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var addItemErrorRules = []mappedHandlerError{
	{target: service.ErrProductIDRequired, code: response.CodeBadRequest, msg: msgProductIDMissing},
	{target: service.ErrPriceInvalid, code: response.CodeBadRequest, msg: msgPriceInvalid},
}
