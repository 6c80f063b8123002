// Package catalog loads the movie snapshot and holds it immutably for the
// process lifetime. The snapshot is the single source of truth for the
// engine; any change to it requires a full rebuild.
package catalog

import "github.com/cinematch/cinematch/internal/domain"

// Catalog is the ordered, immutable set of movies. A movie's Index equals its
// position, so row i of every structure derived from the catalog refers to
// movie i.
type Catalog struct {
	movies []domain.Movie
	titles []string
}

// New wraps an ordered movie list. Callers must not retain the slice.
func New(movies []domain.Movie) *Catalog {
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	return &Catalog{movies: movies, titles: titles}
}

// Len returns the number of movies.
func (c *Catalog) Len() int { return len(c.movies) }

// Movie returns the movie at index i.
func (c *Catalog) Movie(i int) domain.Movie { return c.movies[i] }

// Titles returns all titles in catalog order. The returned slice is shared
// and must not be mutated.
func (c *Catalog) Titles() []string { return c.titles }
