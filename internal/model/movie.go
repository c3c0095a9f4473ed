package model

// CatalogRecord TMDB 返回的原始电影记录
// ID 由 TMDB 分配，全局稳定，本地从不生成
type CatalogRecord struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// MoviePayload 写入向量索引的电影属性，键名与索引 payload 一致
type MoviePayload struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// MovieHit 检索命中，按请求构造，响应发送后即丢弃
// PosterPath 对外输出完整图片地址（前端直接渲染该字段）
type MovieHit struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Score       float64 `json:"score"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// SimilarResult 相似电影查询结果
type SimilarResult struct {
	SearchedFor  string     `json:"searched_for"`
	SearchedPlot string     `json:"searched_plot"`
	Results      []MovieHit `json:"results"`
}
