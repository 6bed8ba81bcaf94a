package service

import "errors"

var (
	ErrProductIDRequired = errors.New("product id required")
	ErrPriceInvalid      = errors.New("price invalid")
	ErrCartIDInvalid     = errors.New("cart id invalid")
	ErrDispatchFailed    = errors.New("cart item dispatch failed")
)
