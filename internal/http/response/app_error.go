package response

import "fmt"

// AppError 携带响应码的处理器错误，Err 只进日志不返回给调用方
type AppError struct {
	Code    int
	Message string
	Err     error
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (code %d): %v", e.Message, e.Code, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Internal 是否为服务端内部错误
func (e *AppError) Internal() bool {
	return e != nil && e.Code >= CodeInternal
}
