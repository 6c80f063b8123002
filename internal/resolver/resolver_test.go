package resolver

import (
	"errors"
	"testing"

	"github.com/cinematch/cinematch/internal/domain"
)

var titles = []string{"The Matrix", "Matrix Reloaded", "Notting Hill", "Inception"}

func TestResolve_ExactTitle(t *testing.T) {
	r := New(titles, 0)
	m, err := r.Resolve("The Matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Index != 0 || m.Title != "The Matrix" {
		t.Errorf("expected index 0 'The Matrix', got %d %q", m.Index, m.Title)
	}
	if m.Ratio != 1 {
		t.Errorf("expected ratio 1 for exact match, got %f", m.Ratio)
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := New(titles, 0)
	m, err := r.Resolve("the matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "The Matrix" {
		t.Errorf("expected 'The Matrix', got %q", m.Title)
	}
}

func TestResolve_SingleEditTypo(t *testing.T) {
	r := New(titles, 0)
	m, err := r.Resolve("Inceptio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "Inception" {
		t.Errorf("expected 'Inception', got %q", m.Title)
	}
}

func TestResolve_ExtraWhitespace(t *testing.T) {
	r := New(titles, 0)
	m, err := r.Resolve("  notting   hill ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "Notting Hill" {
		t.Errorf("expected 'Notting Hill', got %q", m.Title)
	}
}

func TestResolve_NoiseBelowCutoff(t *testing.T) {
	r := New(titles, 0)
	_, err := r.Resolve("zzqqxxkkww")
	if !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestResolve_EmptyQuery(t *testing.T) {
	r := New(titles, 0)
	_, err := r.Resolve("   ")
	if !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestResolve_TieBrokenByCatalogOrder(t *testing.T) {
	r := New([]string{"Alien", "Alieb"}, 0)
	// Query one edit away from both candidates: the earlier title wins.
	m, err := r.Resolve("Aliex")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Index != 0 {
		t.Errorf("expected first title to win the tie, got index %d", m.Index)
	}
}

func TestResolve_CutoffBoundary(t *testing.T) {
	// "abcde" vs "abcxx": distance 2 over length 5 -> ratio 0.6.
	r := New([]string{"abcxx"}, 0.6)
	if _, err := r.Resolve("abcde"); err != nil {
		t.Fatalf("ratio at cutoff must match, got %v", err)
	}

	strict := New([]string{"abcxx"}, 0.61)
	if _, err := strict.Resolve("abcde"); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("ratio below cutoff must not match, got %v", err)
	}
}
