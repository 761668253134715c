package api

import "github.com/vendortrack/internal/provider"

// Handler 管理端 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
