package admin

import (
	"github.com/catalog-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetRoles 角色与权限策略列表
func (h *Handler) GetRoles(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeBadRequest, "authorization is disabled", nil)
		return
	}
	roles, err := h.AuthzService.RoleCatalog()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list roles", err)
		return
	}
	response.Success(c, roles)
}
