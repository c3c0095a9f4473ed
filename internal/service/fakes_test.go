package service

import (
	"sort"

	"github.com/user/cinematch/internal/model"
	"github.com/user/cinematch/internal/vectorindex"
)

type fakeCatalog struct {
	pages         map[int][]model.CatalogRecord
	pageErr       map[int]error
	searchResults map[string]*model.CatalogRecord
	trending      []model.CatalogRecord
	trendingErr   error
	trendingCalls int
	searchCalls   int
}

func (f *fakeCatalog) TopRated(page int) ([]model.CatalogRecord, error) {
	if err, ok := f.pageErr[page]; ok {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeCatalog) SearchMovie(title string) (*model.CatalogRecord, error) {
	f.searchCalls++
	if rec, ok := f.searchResults[title]; ok {
		return rec, nil
	}
	return nil, ErrMovieNotFound
}

func (f *fakeCatalog) TrendingWeek() ([]model.CatalogRecord, error) {
	f.trendingCalls++
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trending, nil
}

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (f *fakeEmbedder) Embed(text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

type fakeIndex struct {
	collections map[string]int
	points      map[uint64]vectorindex.Point
	batchSizes  []int
	failUpserts int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		collections: make(map[string]int),
		points:      make(map[uint64]vectorindex.Point),
	}
}

func (f *fakeIndex) EnsureCollection(name string, dim int) error {
	if _, ok := f.collections[name]; !ok {
		f.collections[name] = dim
	}
	return nil
}

func (f *fakeIndex) Upsert(collection string, points []vectorindex.Point) error {
	if f.failUpserts > 0 {
		f.failUpserts--
		return errIndexDown
	}
	f.batchSizes = append(f.batchSizes, len(points))
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeIndex) Search(collection string, vector []float32, limit int) ([]vectorindex.ScoredPoint, error) {
	hits := make([]vectorindex.ScoredPoint, 0, len(f.points))
	for _, p := range f.points {
		var score float64
		n := len(vector)
		if len(p.Vector) < n {
			n = len(p.Vector)
		}
		for i := 0; i < n; i++ {
			score += float64(vector[i]) * float64(p.Vector[i])
		}
		hits = append(hits, vectorindex.ScoredPoint{ID: p.ID, Score: score, Payload: p.Payload})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

type failingSummarizer struct{}

func (failingSummarizer) Generate(prompt string) (string, error) {
	return "", errModelDown
}

type recordingSummarizer struct {
	prompt string
	reply  string
}

func (r *recordingSummarizer) Generate(prompt string) (string, error) {
	r.prompt = prompt
	return r.reply, nil
}
