package service

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/cinematch/internal/utils"
)

func newTestTMDB(baseURL string) *TMDBClient {
	return &TMDBClient{
		apiKey:  "test-key",
		baseURL: baseURL,
		http:    utils.NewHTTPClient(2 * time.Second),
	}
}

func TestTMDBTopRated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/top_rated" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Fatal("missing api_key")
		}
		if r.URL.Query().Get("page") != "3" {
			t.Fatalf("unexpected page: %s", r.URL.Query().Get("page"))
		}
		fmt.Fprint(w, `{"results":[{"id":550,"title":"Fight Club","overview":"An insomniac...","poster_path":"/fc.jpg","vote_average":8.4,"release_date":"1999-10-15"}]}`)
	}))
	defer srv.Close()

	records, err := newTestTMDB(srv.URL).TopRated(3)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if len(records) != 1 || records[0].ID != 550 || records[0].Title != "Fight Club" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].VoteAverage != 8.4 {
		t.Fatalf("unexpected vote average: %v", records[0].VoteAverage)
	}
}

func TestTMDBTopRatedNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestTMDB(srv.URL).TopRated(1); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestTMDBSearchMovieNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	_, err := newTestTMDB(srv.URL).SearchMovie("no such movie")
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestTMDBSearchMovieFirstResultWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "fight club" {
			t.Fatalf("unexpected query: %s", r.URL.Query().Get("query"))
		}
		fmt.Fprint(w, `{"results":[{"id":550,"title":"Fight Club","overview":"first"},{"id":551,"title":"Fight Club 2","overview":"second"}]}`)
	}))
	defer srv.Close()

	rec, err := newTestTMDB(srv.URL).SearchMovie("fight club")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if rec.ID != 550 || rec.Overview != "first" {
		t.Fatalf("expected first result as anchor, got %+v", rec)
	}
}

func TestTMDBMissingKey(t *testing.T) {
	c := NewTMDBClient("")
	if _, err := c.TopRated(1); err == nil {
		t.Fatal("expected config error")
	}
	if _, err := c.TrendingWeek(); err == nil {
		t.Fatal("expected config error")
	}
}

func TestTMDBTrendingWeek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/week" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":[{"id":1,"title":"A","vote_average":7.0},{"id":2,"title":"B","vote_average":8.0}]}`)
	}))
	defer srv.Close()

	records, err := newTestTMDB(srv.URL).TrendingWeek()
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
