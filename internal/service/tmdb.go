package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/utils"
)

const (
	tmdbBaseURL   = "https://api.themoviedb.org/3"
	posterBaseURL = "https://image.tmdb.org/t/p/w500"
)

// TMDBClient TMDB 目录客户端
type TMDBClient struct {
	apiKey  string
	baseURL string
	http    *utils.HTTPClient
}

// NewTMDBClient 创建 TMDB 客户端
func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: tmdbBaseURL,
		http:    utils.NewHTTPClient(10 * time.Second),
	}
}

type tmdbListResponse struct {
	Results []model.CatalogRecord `json:"results"`
}

// TopRated 拉取高分榜的一页
func (c *TMDBClient) TopRated(page int) ([]model.CatalogRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is not set")
	}

	reqURL := fmt.Sprintf("%s/movie/top_rated?api_key=%s&language=en-US&page=%d", c.baseURL, c.apiKey, page)

	var out tmdbListResponse
	if err := c.http.GetJSON(reqURL, &out); err != nil {
		return nil, fmt.Errorf("fetch top rated page %d failed: %w", page, err)
	}
	return out.Results, nil
}

// SearchMovie 按标题搜索，取第一条作为锚点电影
func (c *TMDBClient) SearchMovie(title string) (*model.CatalogRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is not set")
	}

	reqURL := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s", c.baseURL, c.apiKey, url.QueryEscape(title))

	var out tmdbListResponse
	if err := c.http.GetJSON(reqURL, &out); err != nil {
		return nil, fmt.Errorf("search movie failed: %w", err)
	}
	if len(out.Results) == 0 {
		return nil, ErrMovieNotFound
	}
	return &out.Results[0], nil
}

// TrendingWeek 拉取本周趋势榜
func (c *TMDBClient) TrendingWeek() ([]model.CatalogRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is not set")
	}

	reqURL := fmt.Sprintf("%s/trending/movie/week?api_key=%s", c.baseURL, c.apiKey)

	var out tmdbListResponse
	if err := c.http.GetJSON(reqURL, &out); err != nil {
		return nil, fmt.Errorf("fetch trending failed: %w", err)
	}
	return out.Results, nil
}
