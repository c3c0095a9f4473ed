package service

import (
	"errors"

	"github.com/user/cinematch/internal/model"
)

// ErrMovieNotFound 按标题解析锚点电影时目录源无任何候选
var ErrMovieNotFound = errors.New("movie not found")

// CatalogSource 电影目录外部源（TMDB）
type CatalogSource interface {
	TopRated(page int) ([]model.CatalogRecord, error)
	SearchMovie(title string) (*model.CatalogRecord, error)
	TrendingWeek() ([]model.CatalogRecord, error)
}

// Embedder 把任意文本映射成定长稠密向量，相同输入结果一致
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// Summarizer 根据提示词生成自由文本，可能失败或很慢
type Summarizer interface {
	Generate(prompt string) (string, error)
}
