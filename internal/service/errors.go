package service

import "errors"

// 业务错误定义，处理器通过 errors.Is 映射为接口错误响应。
var (
	ErrVendorNotFound           = errors.New("vendor not found")
	ErrVendorInvalid            = errors.New("vendor payload invalid")
	ErrVendorCodeTaken          = errors.New("vendor code already exists")
	ErrOrderNotFound            = errors.New("purchase order not found")
	ErrOrderInvalid             = errors.New("purchase order payload invalid")
	ErrPONumberTaken            = errors.New("po number already exists")
	ErrOrderAlreadyAcknowledged = errors.New("purchase order already acknowledged")
	ErrInvalidCredentials       = errors.New("invalid username or password")
)
