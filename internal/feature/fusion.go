// Package feature combines per-movie attributes into one textual document per
// movie, the input to vectorization.
package feature

import (
	"strings"

	"github.com/cinematch/cinematch/internal/catalog"
)

// DefaultFields is the attribute order fused into each document. Order is
// part of the engine contract: changing it changes every fused document.
var DefaultFields = []string{
	"genres",
	"keywords",
	"tagline",
	"cast",
	"director",
	"overview",
	"crew",
	"runtime",
	"vote_average",
	"vote_count",
}

// Fuse produces one document per movie by joining the named raw attributes
// with single spaces, preserving field order. Absent attributes contribute
// empty strings, so every movie is processed identically and the result is
// byte-identical for an unchanged catalog and field list.
func Fuse(cat *catalog.Catalog, fields []string) []string {
	docs := make([]string, cat.Len())
	parts := make([]string, len(fields))
	for i := 0; i < cat.Len(); i++ {
		attrs := cat.Movie(i).Attributes
		for j, f := range fields {
			parts[j] = attrs[f]
		}
		docs[i] = strings.Join(parts, " ")
	}
	return docs
}
