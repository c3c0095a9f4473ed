package handler

import (
	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/service"
	"github.com/user/cinematch/internal/utils"
	"github.com/user/cinematch/internal/vectorindex"
)

// Handler HTTP 处理器
type Handler struct {
	Config      *config.Config
	Recommender *service.RecommendService
}

// NewHandler 创建处理器，外部客户端在这里一次性组装
func NewHandler(cfg *config.Config, index vectorindex.Index) *Handler {
	catalog := service.NewTMDBClient(cfg.TMDBAPIKey)
	embedder := utils.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel)
	llm := utils.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	explainer := service.NewExplainer(llm)

	return &Handler{
		Config:      cfg,
		Recommender: service.NewRecommendService(catalog, embedder, index, explainer),
	}
}
