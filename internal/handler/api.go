package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/user/cinematch/internal/service"
	"github.com/user/cinematch/internal/utils"
)

type recommendRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

type similarRequest struct {
	Title string `json:"title" binding:"required"`
	Limit int    `json:"limit"`
}

// Health 存活探针
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "cinematch",
	})
}

// Trending 本周趋势榜
func (h *Handler) Trending(c *gin.Context) {
	hits, err := h.Recommender.Trending()
	if err != nil {
		c.JSON(200, gin.H{"error": err.Error()})
		return
	}
	utils.OK(c, gin.H{"results": hits})
}

// Recommend 自由文本推荐
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, "query is required")
		return
	}

	hits, explanation, err := h.Recommender.Recommend(req.Query, req.Limit)
	if err != nil {
		utils.Fail(c, err.Error())
		return
	}

	utils.OK(c, gin.H{
		"results":     hits,
		"explanation": explanation,
	})
}

// Similar 锚点电影推荐（"找和 X 相似的电影"）
func (h *Handler) Similar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, "title is required")
		return
	}

	result, err := h.Recommender.Similar(req.Title, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrMovieNotFound) {
			utils.Fail(c, "Movie not found in our database!")
			return
		}
		utils.Fail(c, err.Error())
		return
	}

	c.JSON(200, result)
}
