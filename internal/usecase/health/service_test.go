package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCatalog struct {
	n int
}

func (m *mockCatalog) Len() int { return m.n }

type mockPosters struct {
	configured bool
}

func (m *mockPosters) Configured() bool { return m.configured }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCatalog{n: 4803}, &mockPosters{configured: true}, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if !r.TMDBConfigured {
		t.Error("expected tmdb configured")
	}
	if r.MoviesLoaded != 4803 {
		t.Errorf("expected 4803 movies, got %d", r.MoviesLoaded)
	}
	if r.Checks["catalog"] != CheckOK {
		t.Errorf("expected catalog %q, got %q", CheckOK, r.Checks["catalog"])
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockCatalog{n: 10}, &mockPosters{configured: true}, &mockCachePinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["catalog"] != CheckOK {
		t.Errorf("expected catalog %q, got %q", CheckOK, r.Checks["catalog"])
	}
}

func TestCheck_EmptyCatalog(t *testing.T) {
	svc := New(&mockCatalog{n: 0}, &mockPosters{configured: true}, &mockCachePinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["catalog"] != CheckError {
		t.Errorf("expected catalog %q, got %q", CheckError, r.Checks["catalog"])
	}
	if r.MoviesLoaded != 0 {
		t.Errorf("expected 0 movies, got %d", r.MoviesLoaded)
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(&mockCatalog{n: 3}, &mockPosters{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_PostersUnconfigured(t *testing.T) {
	svc := New(&mockCatalog{n: 3}, &mockPosters{configured: false}, nil)
	r := svc.Check(context.Background())

	if r.TMDBConfigured {
		t.Error("expected tmdb not configured")
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

func TestCheck_NilPosters(t *testing.T) {
	svc := New(&mockCatalog{n: 3}, nil, nil)
	r := svc.Check(context.Background())

	if r.TMDBConfigured {
		t.Error("expected tmdb not configured when provider is nil")
	}
}
