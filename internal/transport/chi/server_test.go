package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/engine"
	healthuc "github.com/cinematch/cinematch/internal/usecase/health"
	recommenduc "github.com/cinematch/cinematch/internal/usecase/recommend"
	"github.com/cinematch/cinematch/internal/vectorizer/tfidf"
)

// --- Fixtures ---

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Movie{
		{
			Index: 0, Title: "The Matrix", TMDBID: intPtr(603),
			ReleaseDate: "1999-03-31", Genres: "Action Sci-Fi", VoteAverage: floatPtr(8.1),
			Attributes: map[string]string{
				"genres": "Action Sci-Fi", "overview": "A hacker discovers reality is a simulation",
			},
		},
		{
			Index: 1, Title: "Matrix Reloaded", TMDBID: intPtr(604),
			ReleaseDate: "2003-05-15", Genres: "Action Sci-Fi", VoteAverage: floatPtr(7.0),
			Attributes: map[string]string{
				"genres": "Action Sci-Fi", "overview": "Neo continues to fight the machines",
			},
		},
		{
			Index: 2, Title: "Notting Hill",
			ReleaseDate: "1999-05-13", Genres: "Romance Comedy", VoteAverage: floatPtr(7.1),
			Attributes: map[string]string{
				"genres": "Romance Comedy", "overview": "A bookshop owner falls for a famous actress",
			},
		},
	})
}

type staticPosters struct{}

func (staticPosters) Configured() bool { return true }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cat := testCatalog()
	eng, err := engine.Build(context.Background(), cat, tfidf.New(), engine.Config{
		FusionFields: []string{"genres", "overview"},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("engine.Build: %v", err)
	}

	recommender := recommenduc.New(engine.NewHolder(eng), nil, zap.NewNop())
	health := healthuc.New(cat, staticPosters{}, nil)

	srv := NewServer(recommender, health, 10, "", zap.NewNop())
	r := chirouter.NewRouter()
	srv.Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestRecommendation_ReturnsTitles(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/recommendation", `{"movie": "the matrix"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp titlesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MatchedMovie != "The Matrix" {
		t.Errorf("expected matched movie 'The Matrix', got %q", resp.MatchedMovie)
	}
	if len(resp.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if resp.Recommendations[0] != "Matrix Reloaded" {
		t.Errorf("expected 'Matrix Reloaded' first, got %q", resp.Recommendations[0])
	}
	for _, title := range resp.Recommendations {
		if title == "The Matrix" {
			t.Error("matched movie must not appear in its own recommendations")
		}
	}
}

func TestRecommendation_NotFound(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/recommendation", `{"movie": "zzzzzzzzzz"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeMovieNotFound {
		t.Errorf("expected code %q, got %q", codeMovieNotFound, resp.Code)
	}
}

func TestRecommendation_InvalidBody(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/recommendation", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeBadRequest {
		t.Errorf("expected code %q, got %q", codeBadRequest, resp.Code)
	}
}

func TestRecommendation_EmptyTitle(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/recommendation", `{"movie": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeValidationFailed {
		t.Errorf("expected code %q, got %q", codeValidationFailed, resp.Code)
	}
}

func TestMoviesWithPosters_FullDetail(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/movies-with-posters", `{"movie": "Matrix Reloaded"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SearchedTitle != "Matrix Reloaded" {
		t.Errorf("expected searched title preserved, got %q", resp.SearchedTitle)
	}
	if resp.MatchedTitle != "Matrix Reloaded" {
		t.Errorf("expected matched title 'Matrix Reloaded', got %q", resp.MatchedTitle)
	}
	if len(resp.Movies) == 0 {
		t.Fatal("expected recommendations")
	}

	first := resp.Movies[0]
	if first.Title != "The Matrix" {
		t.Errorf("expected 'The Matrix' first, got %q", first.Title)
	}
	if first.Year != "1999" {
		t.Errorf("expected year 1999, got %q", first.Year)
	}
	if first.MatchPercentage <= 0 || first.MatchPercentage > 100 {
		t.Errorf("match percentage out of range: %d", first.MatchPercentage)
	}
	// No TMDb fetcher wired: every poster comes from a genre fallback.
	if first.PosterURL == "" {
		t.Error("expected a fallback poster url")
	}
}

func TestMoviesWithPosters_NotFound(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/movies-with-posters", `{"movie": "qqqqqqqqq"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp healthuc.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != healthuc.Healthy {
		t.Errorf("expected status %q, got %q", healthuc.Healthy, resp.Status)
	}
	if !resp.TMDBConfigured {
		t.Error("expected tmdb_configured true")
	}
	if resp.MoviesLoaded != 3 {
		t.Errorf("expected 3 movies loaded, got %d", resp.MoviesLoaded)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRoot_WithoutStaticDir(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CineMatch") {
		t.Errorf("expected API banner, got %s", rec.Body.String())
	}
}
