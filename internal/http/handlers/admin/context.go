package admin

import (
	handlershared "github.com/catalog-next/internal/http/handlers/shared"
	"github.com/catalog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, ok := handlershared.ParseID(c.Param(name))
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// operatorName 审计日志使用的操作人，未启用鉴权时为 anonymous
func operatorName(c *gin.Context) string {
	if name := handlershared.OperatorUsername(c); name != "" {
		return name
	}
	return "anonymous"
}
