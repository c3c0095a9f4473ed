package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/user/cinematch/internal/model"
)

// Fail 返回带空结果列表的错误响应
// 响应始终是 200 形态的 JSON，results 字段保证存在，前端无需特判
func Fail(c *gin.Context, message string) {
	c.JSON(200, gin.H{
		"error":   message,
		"results": []model.MovieHit{},
	})
}

// OK 返回成功响应
func OK(c *gin.Context, payload gin.H) {
	c.JSON(200, payload)
}
