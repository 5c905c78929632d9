package shared

import (
	"errors"

	"github.com/catalog-next/internal/http/response"
	"github.com/catalog-next/internal/logger"
	"github.com/catalog-next/internal/service"

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

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		log := RequestLog(c).Warnw
		if appErr.Internal() {
			log = RequestLog(c).Errorw
		}
		log("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// serviceErrorRules 业务错误类别到响应码的映射，按顺序匹配
var serviceErrorRules = []struct {
	target error
	code   int
}{
	{target: service.ErrNotFound, code: response.CodeNotFound},
	{target: service.ErrConflict, code: response.CodeConflict},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest},
	{target: service.ErrInvalidState, code: response.CodeBadRequest},
	{target: service.ErrUnprocessable, code: response.CodeUnprocessable},
}

// ServiceErrorCode 返回业务错误对应的响应码，未归类的错误视为内部错误。
func ServiceErrorCode(err error) int {
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			return rule.code
		}
	}
	return response.CodeInternal
}

// RespondServiceError 根据业务错误类别返回响应，内部错误只记录日志不外泄细节。
func RespondServiceError(c *gin.Context, err error, fallbackMsg string) {
	code := ServiceErrorCode(err)
	if code == response.CodeInternal {
		RespondError(c, code, fallbackMsg, err)
		return
	}
	response.Error(c, code, err.Error())
}
