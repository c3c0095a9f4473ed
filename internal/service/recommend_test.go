package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/vectorindex"
)

func seedIndex(index *fakeIndex, titles ...string) {
	for i, title := range titles {
		index.points[uint64(i+1)] = vectorindex.Point{
			ID:     uint64(i + 1),
			Vector: []float32{1, float32(i) * 0.01, 0},
			Payload: model.MoviePayload{
				Title:       title,
				Overview:    "Plot of " + title,
				PosterPath:  "/poster.jpg",
				VoteAverage: 8,
				ReleaseDate: "2001-01-01",
			},
		}
	}
}

func TestRecommendLimitBound(t *testing.T) {
	index := newFakeIndex()
	seedIndex(index, "A", "B", "C", "D", "E")
	rec := NewRecommendService(&fakeCatalog{}, &fakeEmbedder{}, index, NewExplainer(failingSummarizer{}))

	hits, _, err := rec.Recommend("space opera", 3)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}

	// limit 缺省时取 10，索引不足 10 条则全量返回
	hits, _, err = rec.Recommend("space opera", 0)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(hits) != 5 {
		t.Fatalf("expected 5 hits with default limit, got %d", len(hits))
	}
}

func TestRecommendDegradesWithoutSummarizer(t *testing.T) {
	index := newFakeIndex()
	seedIndex(index, "A", "B")
	rec := NewRecommendService(&fakeCatalog{}, &fakeEmbedder{}, index, NewExplainer(failingSummarizer{}))

	hits, explanation, err := rec.Recommend("anything", 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("retrieval results must survive summarizer failure")
	}
	if explanation != FallbackExplanation {
		t.Fatalf("expected fallback explanation, got %q", explanation)
	}
}

func TestRecommendPosterURL(t *testing.T) {
	index := newFakeIndex()
	seedIndex(index, "A")
	rec := NewRecommendService(&fakeCatalog{}, &fakeEmbedder{}, index, NewExplainer(failingSummarizer{}))

	hits, _, err := rec.Recommend("anything", 1)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if hits[0].PosterPath != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("unexpected poster url: %q", hits[0].PosterPath)
	}
}

func TestRecommendEmbeddingCache(t *testing.T) {
	index := newFakeIndex()
	seedIndex(index, "A")
	embedder := &fakeEmbedder{}
	rec := NewRecommendService(&fakeCatalog{}, embedder, index, NewExplainer(failingSummarizer{}))

	for i := 0; i < 3; i++ {
		if _, _, err := rec.Recommend("same query", 1); err != nil {
			t.Fatalf("recommend: %v", err)
		}
	}
	if embedder.calls != 1 {
		t.Fatalf("expected a single embedding call for a repeated query, got %d", embedder.calls)
	}
}

func TestSimilarExcludesAnchorTitle(t *testing.T) {
	index := newFakeIndex()
	seedIndex(index, "Fight Club", "Se7en", "The Game", "Gone Girl")
	catalog := &fakeCatalog{searchResults: map[string]*model.CatalogRecord{
		"fight club": {ID: 550, Title: "Fight Club", Overview: "An insomniac office worker..."},
	}}
	rec := NewRecommendService(catalog, &fakeEmbedder{}, index, NewExplainer(failingSummarizer{}))

	result, err := rec.Similar("fight club", 3)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if result.SearchedFor != "Fight Club" {
		t.Fatalf("expected canonical title, got %q", result.SearchedFor)
	}
	if result.SearchedPlot != "An insomniac office worker..." {
		t.Fatalf("unexpected searched_plot: %q", result.SearchedPlot)
	}
	if len(result.Results) > 3 {
		t.Fatalf("expected at most 3 hits, got %d", len(result.Results))
	}
	for _, hit := range result.Results {
		if hit.Title == "Fight Club" {
			t.Fatal("anchor movie must be excluded by title")
		}
	}
}

func TestSimilarNotFound(t *testing.T) {
	rec := NewRecommendService(&fakeCatalog{}, &fakeEmbedder{}, newFakeIndex(), NewExplainer(failingSummarizer{}))

	_, err := rec.Similar("definitely not a movie", 5)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestTrendingScores(t *testing.T) {
	trending := make([]model.CatalogRecord, 0, 12)
	votes := []float64{0, 1.3, 4.2, 5, 6.6, 7.1, 7.7, 8, 8.4, 9.2, 9.8, 10}
	for i, v := range votes {
		trending = append(trending, model.CatalogRecord{
			ID:          i + 1,
			Title:       "T",
			Overview:    "plot",
			PosterPath:  "/t.jpg",
			VoteAverage: v,
		})
	}
	catalog := &fakeCatalog{trending: trending}
	rec := NewRecommendService(catalog, &fakeEmbedder{}, newFakeIndex(), NewExplainer(failingSummarizer{}))

	hits, err := rec.Trending()
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(hits) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(hits))
	}
	for i, hit := range hits {
		if hit.Score < 0 || hit.Score > 1 {
			t.Fatalf("score out of [0,1]: %v", hit.Score)
		}
		if hit.Score != votes[i]/10 {
			t.Fatalf("expected score %v, got %v", votes[i]/10, hit.Score)
		}
		if !strings.HasPrefix(hit.PosterPath, "https://image.tmdb.org/") {
			t.Fatalf("expected full poster url, got %q", hit.PosterPath)
		}
	}

	// 第二次调用走缓存，不再请求目录源
	if _, err := rec.Trending(); err != nil {
		t.Fatalf("trending: %v", err)
	}
	if catalog.trendingCalls != 1 {
		t.Fatalf("expected cached trending, got %d catalog calls", catalog.trendingCalls)
	}
}

func TestTrendingUpstreamError(t *testing.T) {
	catalog := &fakeCatalog{trendingErr: errors.New("status 500")}
	rec := NewRecommendService(catalog, &fakeEmbedder{}, newFakeIndex(), NewExplainer(failingSummarizer{}))

	if _, err := rec.Trending(); err == nil {
		t.Fatal("expected upstream error")
	}
}
