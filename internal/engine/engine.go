// Package engine builds and serves the feature-fusion similarity engine.
//
// An Engine has exactly two states: Building, which only exists inside
// Build, and Ready, which is the immutable value Build returns. All derived
// structures (fused documents, vectors, similarity matrix, resolver) are
// constructed together, so no caller can observe partial state. A Ready
// engine is safe for concurrent lock-free reads.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/feature"
	"github.com/cinematch/cinematch/internal/metrics"
	"github.com/cinematch/cinematch/internal/resolver"
	"github.com/cinematch/cinematch/internal/similarity"
)

// DefaultTopK is the number of recommendations returned when the caller does
// not specify one.
const DefaultTopK = 10

// Config holds engine build settings.
type Config struct {
	// FusionFields is the ordered attribute list fused into each document.
	// Empty selects feature.DefaultFields.
	FusionFields []string
	// MatchCutoff is the fuzzy-resolution threshold. Zero selects
	// resolver.DefaultCutoff.
	MatchCutoff float64
}

// Scored pairs a catalog index with its similarity score.
type Scored struct {
	Index int
	Score float64
}

// Engine is the Ready similarity engine.
type Engine struct {
	cat      *catalog.Catalog
	matrix   *similarity.Matrix
	resolver *resolver.Resolver
}

// Build runs the full construction pipeline: fuse, vectorize, compute the
// similarity matrix, prepare the title resolver. Vectorizer failures abort
// the build; nothing else errors.
func Build(ctx context.Context, cat *catalog.Catalog, vec domain.Vectorizer, cfg Config, logger *zap.Logger) (*Engine, error) {
	start := time.Now()

	fields := cfg.FusionFields
	if len(fields) == 0 {
		fields = feature.DefaultFields
	}

	docs := feature.Fuse(cat, fields)

	vectors, err := vec.Vectorize(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("vectorize catalog: %w", err)
	}
	if len(vectors) != cat.Len() {
		return nil, fmt.Errorf("%w: %d vectors for %d movies", domain.ErrVectorizerError, len(vectors), cat.Len())
	}

	matrix := similarity.Build(vectors)

	eng := &Engine{
		cat:      cat,
		matrix:   matrix,
		resolver: resolver.New(cat.Titles(), cfg.MatchCutoff),
	}

	elapsed := time.Since(start)
	metrics.EngineBuildDuration.Observe(elapsed.Seconds())
	logger.Info("engine built",
		zap.Int("movies", cat.Len()),
		zap.Int("fusion_fields", len(fields)),
		zap.Duration("elapsed", elapsed),
	)

	return eng, nil
}

// Catalog returns the catalog this engine was built from.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Resolve fuzzy-matches query against catalog titles.
func (e *Engine) Resolve(query string) (resolver.Match, error) {
	m, err := e.resolver.Resolve(query)
	if err != nil {
		return resolver.Match{}, fmt.Errorf("resolve %q: %w", query, err)
	}
	return m, nil
}

// Rank returns the top-k movies most similar to movie idx, excluding idx
// itself, sorted by score descending with ties broken by ascending catalog
// index. Fewer than k results are returned when the catalog is small.
func (e *Engine) Rank(idx, k int) []Scored {
	if k <= 0 {
		k = DefaultTopK
	}
	row := e.matrix.Row(idx)

	ranked := make([]Scored, 0, len(row)-1)
	for j, score := range row {
		if j == idx {
			continue
		}
		ranked = append(ranked, Scored{Index: j, Score: score})
	}

	// Insertion order is ascending index, so a stable sort on descending
	// score keeps ties in catalog order.
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
