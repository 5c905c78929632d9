package public

import "github.com/catalog-next/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器仅用于无需鉴权的目录查询 API。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
