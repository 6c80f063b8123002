// Package resolver fuzzy-matches free-text queries against catalog titles.
// This is the only user-facing approximate step: it tolerates typos, case
// differences and stray whitespace.
package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cinematch/cinematch/internal/domain"
)

// DefaultCutoff is the minimum similarity ratio a title must clear to be
// considered a match.
const DefaultCutoff = 0.6

// Match is a resolved title.
type Match struct {
	Index int
	Title string
	Ratio float64
}

// Resolver matches queries against a fixed ordered title list.
type Resolver struct {
	titles     []string
	normalized []string
	cutoff     float64
}

// New creates a resolver over titles. cutoff <= 0 selects DefaultCutoff.
func New(titles []string, cutoff float64) *Resolver {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	normalized := make([]string, len(titles))
	for i, t := range titles {
		normalized[i] = normalize(t)
	}
	return &Resolver{titles: titles, normalized: normalized, cutoff: cutoff}
}

// Resolve returns the best-matching title for query, or ErrMovieNotFound when
// no title clears the cutoff. Ties are broken by catalog order: a later title
// replaces an earlier one only with a strictly better ratio.
func (r *Resolver) Resolve(query string) (Match, error) {
	q := normalize(query)
	if q == "" {
		return Match{}, domain.ErrMovieNotFound
	}

	best := Match{Index: -1}
	for i, title := range r.normalized {
		ratio := similarityRatio(q, title)
		if ratio > best.Ratio {
			best = Match{Index: i, Title: r.titles[i], Ratio: ratio}
		}
	}

	if best.Index < 0 || best.Ratio < r.cutoff {
		return Match{}, domain.ErrMovieNotFound
	}
	return best, nil
}

// similarityRatio maps Levenshtein distance to [0, 1]: 1 means equal strings,
// 0 means a full rewrite.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
