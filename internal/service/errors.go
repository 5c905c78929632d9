package service

import (
	"errors"
	"fmt"
)

// 错误分类，HTTP 层按分类映射状态码
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidState  = errors.New("invalid state")
	ErrUnprocessable = errors.New("unprocessable state")
)

// 商品
var (
	ErrProductNotFound   = fmt.Errorf("%w: product not found", ErrNotFound)
	ErrProductNameExists = fmt.Errorf("%w: product name already exists", ErrConflict)
	ErrProductInvalid    = fmt.Errorf("%w: product is invalid", ErrInvalidInput)
)

// 优惠券
var (
	ErrCouponNotFound      = fmt.Errorf("%w: coupon not found", ErrNotFound)
	ErrCouponCodeExists    = fmt.Errorf("%w: coupon code already exists", ErrConflict)
	ErrCouponInvalid       = fmt.Errorf("%w: coupon is invalid", ErrInvalidInput)
	ErrCouponWindowInvalid = fmt.Errorf("%w: coupon validUntil must be after validFrom", ErrInvalidInput)
	ErrCouponValueInvalid  = fmt.Errorf("%w: coupon value is out of range", ErrInvalidInput)
	ErrCouponNotValidNow   = fmt.Errorf("%w: coupon is not valid at this time", ErrInvalidState)
)

// 折扣
var (
	ErrDiscountConflict     = fmt.Errorf("%w: product already has a coupon applied", ErrConflict)
	ErrDiscountBelowMinimum = fmt.Errorf("%w: discounted price would be below 0.01", ErrUnprocessable)
)

// 运营人员认证
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCaptchaRequired    = fmt.Errorf("%w: captcha is required", ErrInvalidInput)
	ErrCaptchaInvalid     = fmt.Errorf("%w: captcha is incorrect", ErrInvalidInput)
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// fieldError 附带字段说明的校验错误，仍可按分类匹配
func fieldError(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
