package vectorindex

import (
	"github.com/user/cinematch/internal/config"
	"github.com/user/cinematch/internal/model"
)

// Point 一条待写入的索引记录，ID 为 TMDB 电影 ID
type Point struct {
	ID      uint64
	Vector  []float32
	Payload model.MoviePayload
}

// ScoredPoint 最近邻检索命中
type ScoredPoint struct {
	ID      uint64
	Score   float64
	Payload model.MoviePayload
}

// Index 向量索引抽象，按余弦相似度做最近邻检索
// Upsert 以 ID 为键，重复写入同一 ID 时覆盖旧记录而不是产生副本
type Index interface {
	EnsureCollection(name string, dim int) error
	Upsert(collection string, points []Point) error
	Search(collection string, vector []float32, limit int) ([]ScoredPoint, error)
}

// Open 根据配置选择索引后端，启动时调用一次
func Open(cfg *config.Config) (Index, error) {
	if cfg.Backend == config.IndexRemote {
		return NewQdrant(cfg.QdrantURL, cfg.QdrantAPIKey), nil
	}
	return OpenLocal(cfg.IndexPath)
}
