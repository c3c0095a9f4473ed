package service

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/utils"
	"github.com/user/cinematch/internal/vectorindex"
)

const (
	defaultLimit  = 10
	trendingLimit = 10

	trendingCacheKey = "trending:week"
	trendingCacheTTL = 5 * time.Minute
)

// RecommendService 检索引擎：向量化查询表示，跑最近邻检索，整形结果
// 两种查询表示共用同一个检索原语：自由文本直接嵌入，锚点电影先经目录源解析
type RecommendService struct {
	catalog   CatalogSource
	embedder  Embedder
	index     vectorindex.Index
	explainer *Explainer

	// 热门查询的向量缓存，省掉重复的嵌入调用
	embedCache *utils.LRUCache[[]float32]
	// 趋势榜对所有调用方相同，短 TTL 缓存
	trending *gocache.Cache
	sf       singleflight.Group
}

// NewRecommendService 创建检索引擎
func NewRecommendService(catalog CatalogSource, embedder Embedder, index vectorindex.Index, explainer *Explainer) *RecommendService {
	return &RecommendService{
		catalog:    catalog,
		embedder:   embedder,
		index:      index,
		explainer:  explainer,
		embedCache: utils.NewLRUCache[[]float32](1000, time.Hour),
		trending:   gocache.New(trendingCacheTTL, 10*time.Minute),
	}
}

// Recommend 自由文本推荐：嵌入查询、取前 limit 条命中、生成推荐理由
// 理由生成失败不影响检索结果（只会拿到兜底文案）
func (s *RecommendService) Recommend(query string, limit int) ([]model.MovieHit, string, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	vector, err := s.embedQuery(query)
	if err != nil {
		return nil, "", fmt.Errorf("embedding failed: %v", err)
	}

	points, err := s.index.Search(CollectionName, vector, limit)
	if err != nil {
		return nil, "", fmt.Errorf("vector search failed: %v", err)
	}

	// 索引自身的相似度排序即最终排序，这里不做重排
	hits := make([]model.MovieHit, 0, len(points))
	for _, p := range points {
		hits = append(hits, hitFromPayload(p.Payload, p.Score))
	}

	explanation := s.explainer.Explain(query, hits)
	return hits, explanation, nil
}

// Similar 锚点推荐："找和 X 相似的电影"
// 目录源解析不到锚点时返回 ErrMovieNotFound，不再发起检索
func (s *RecommendService) Similar(title string, limit int) (*model.SimilarResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	anchor, err := s.resolveAnchor(title)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedQuery(fmt.Sprintf("%s: %s", anchor.Title, anchor.Overview))
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %v", err)
	}

	// 多取一位：锚点电影自身可能在索引里，需要排除掉
	points, err := s.index.Search(CollectionName, vector, limit+1)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %v", err)
	}

	// 按展示名而不是 ID 排除锚点，同名的无关电影会被一并滤掉（沿用线上行为）
	hits := make([]model.MovieHit, 0, limit)
	for _, p := range points {
		if p.Payload.Title == anchor.Title {
			continue
		}
		hits = append(hits, hitFromPayload(p.Payload, p.Score))
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	return &model.SimilarResult{
		SearchedFor:  anchor.Title,
		SearchedPlot: anchor.Overview,
		Results:      hits,
	}, nil
}

// Trending 本周趋势榜，最多 10 条
// 趋势榜没有相似度，把 0-10 的评分折算成 0-1 的伪得分，和检索接口的得分可比
func (s *RecommendService) Trending() ([]model.MovieHit, error) {
	if cached, ok := s.trending.Get(trendingCacheKey); ok {
		return cached.([]model.MovieHit), nil
	}

	val, err, _ := s.sf.Do(trendingCacheKey, func() (interface{}, error) {
		records, err := s.catalog.TrendingWeek()
		if err != nil {
			return nil, err
		}
		if len(records) > trendingLimit {
			records = records[:trendingLimit]
		}

		hits := make([]model.MovieHit, 0, len(records))
		for _, rec := range records {
			hits = append(hits, model.MovieHit{
				Title:       rec.Title,
				Overview:    rec.Overview,
				Score:       rec.VoteAverage / 10,
				PosterPath:  posterURL(rec.PosterPath),
				ReleaseDate: rec.ReleaseDate,
				VoteAverage: rec.VoteAverage,
			})
		}

		s.trending.Set(trendingCacheKey, hits, gocache.DefaultExpiration)
		return hits, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]model.MovieHit), nil
}

// embedQuery 带 LRU 缓存的查询向量化
func (s *RecommendService) embedQuery(text string) ([]float32, error) {
	if vector, ok := s.embedCache.Get(text); ok {
		return vector, nil
	}
	vector, err := s.embedder.Embed(text)
	if err != nil {
		return nil, err
	}
	s.embedCache.Set(text, vector)
	return vector, nil
}

// resolveAnchor 把用户输入的标题解析成目录里的规范记录
// singleflight 合并并发的相同解析请求
func (s *RecommendService) resolveAnchor(title string) (*model.CatalogRecord, error) {
	key := "anchor:" + strings.ToLower(strings.TrimSpace(title))
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.catalog.SearchMovie(title)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.CatalogRecord), nil
}

func hitFromPayload(p model.MoviePayload, score float64) model.MovieHit {
	return model.MovieHit{
		Title:       p.Title,
		Overview:    p.Overview,
		Score:       score,
		PosterPath:  posterURL(p.PosterPath),
		ReleaseDate: p.ReleaseDate,
		VoteAverage: p.VoteAverage,
	}
}

// posterURL 拼接图片主机前缀；poster_path 为空时得到只有前缀的地址，按原样返回
func posterURL(path string) string {
	return posterBaseURL + path
}
