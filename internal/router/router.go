package router

import (
	"github.com/gin-gonic/gin"

	"github.com/user/cinematch/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	r.GET("/", h.Health)
	r.GET("/trending", h.Trending)
	r.POST("/recommend", h.Recommend)
	r.POST("/similar", h.Similar)
}
