package shared

import (
	"github.com/catalog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入上下文的键
const (
	OperatorIDKey   = "operator_id"
	OperatorNameKey = "operator_username"
	OperatorRoleKey = "operator_role"
)

// GetContextUint 从上下文读取 uint 值并统一处理错误响应。
func GetContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, "invalid "+key+" type", nil)
		return 0, false
	}
}

// OperatorUsername 当前运营人员账号，未鉴权时为空
func OperatorUsername(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(OperatorNameKey)
}
