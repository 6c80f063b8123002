// Package recommend implements the recommendation use case: resolve the
// query to a catalog movie, rank the rest of the catalog by similarity, then
// decorate the ranked list with poster URLs best-effort.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/engine"
	"github.com/cinematch/cinematch/internal/metrics"
)

// defaultPosterTimeout bounds the whole enrichment phase of one request.
const defaultPosterTimeout = 5 * time.Second

// Service answers recommendation queries against the currently published
// engine.
type Service struct {
	holder        *engine.Holder
	posters       PosterFetcher // nil disables remote posters entirely
	posterTimeout time.Duration
	logger        *zap.Logger
}

// New creates a recommendation service. posters may be nil.
func New(holder *engine.Holder, posters PosterFetcher, logger *zap.Logger) *Service {
	return &Service{
		holder:        holder,
		posters:       posters,
		posterTimeout: defaultPosterTimeout,
		logger:        logger,
	}
}

// WithPosterTimeout overrides the enrichment deadline.
func (s *Service) WithPosterTimeout(d time.Duration) *Service {
	if d > 0 {
		s.posterTimeout = d
	}
	return s
}

// Recommend resolves query and returns the top-k similar movies without
// poster enrichment. Returns domain.ErrMovieNotFound when no title clears
// the fuzzy cutoff.
func (s *Service) Recommend(ctx context.Context, query string, topK int) (domain.Recommendation, error) {
	_ = ctx // ranking is pure in-memory computation

	eng := s.holder.Engine()

	match, err := eng.Resolve(query)
	if err != nil {
		if errors.Is(err, domain.ErrMovieNotFound) {
			metrics.RecommendationsTotal.WithLabelValues("not_found").Inc()
		}
		return domain.Recommendation{}, fmt.Errorf("resolve query: %w", err)
	}

	ranked := eng.Rank(match.Index, topK)

	movies := make([]domain.RankedMovie, len(ranked))
	for i, r := range ranked {
		movies[i] = rankedMovie(eng, r)
	}

	metrics.RecommendationsTotal.WithLabelValues("ok").Inc()

	return domain.Recommendation{
		SearchedTitle: query,
		MatchedTitle:  match.Title,
		Movies:        movies,
	}, nil
}

// RecommendWithPosters is Recommend followed by the enrichment phase. The
// two phases are independent: enrichment may time out or fail per movie
// without altering the ranked order.
func (s *Service) RecommendWithPosters(ctx context.Context, query string, topK int) (domain.Recommendation, error) {
	rec, err := s.Recommend(ctx, query, topK)
	if err != nil {
		return domain.Recommendation{}, err
	}

	s.enrich(ctx, rec.Movies)
	return rec, nil
}

// enrich fills PosterURL for every ranked movie, concurrently, falling back
// to a deterministic local image when the remote lookup fails or the movie
// has no TMDb id.
func (s *Service) enrich(ctx context.Context, movies []domain.RankedMovie) {
	ctx, cancel := context.WithTimeout(ctx, s.posterTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i := range movies {
		if s.posters == nil || movies[i].TMDBID == nil {
			movies[i].PosterURL = FallbackImage(movies[i].Genres)
			continue
		}

		wg.Add(1)
		go func(m *domain.RankedMovie) {
			defer wg.Done()
			posterURL, err := s.posters.PosterURL(ctx, *m.TMDBID)
			if err != nil {
				s.logger.Debug("poster lookup failed",
					zap.Int("tmdb_id", *m.TMDBID), zap.Error(err))
				m.PosterURL = FallbackImage(m.Genres)
				return
			}
			m.PosterURL = posterURL
		}(&movies[i])
	}
	wg.Wait()
}

// rankedMovie maps one scored index to its display form. Match percentage is
// the similarity score scaled to [0,100] and truncated, not rounded.
func rankedMovie(eng *engine.Engine, r engine.Scored) domain.RankedMovie {
	m := eng.Catalog().Movie(r.Index)

	var rating *float64
	if m.VoteAverage != nil {
		v := math.Round(*m.VoteAverage*10) / 10
		rating = &v
	}

	return domain.RankedMovie{
		Title:           m.Title,
		Year:            m.Year(),
		Rating:          rating,
		Genres:          m.Genres,
		MatchPercentage: int(r.Score * 100),
		TMDBID:          m.TMDBID,
	}
}
