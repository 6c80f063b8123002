// Package poster caches resolved poster URLs in a key-value store so repeat
// recommendations for popular movies skip the image provider entirely.
package poster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/db"
)

const cacheKeyPrefix = "cinematch:poster:"

// Fetcher looks up a poster URL by TMDb id.
type Fetcher interface {
	PosterURL(ctx context.Context, tmdbID int) (string, error)
}

// store is the consumer interface for the poster cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher caches successful poster lookups.
type CachedFetcher struct {
	inner      Fetcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator around inner. cacheTotal is a counter vec
// with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Fetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// PosterURL returns a cached URL or calls the inner fetcher. Store failures
// degrade to a miss: the cache never makes enrichment worse than no cache.
func (c *CachedFetcher) PosterURL(ctx context.Context, tmdbID int) (string, error) {
	key := cacheKeyPrefix + strconv.Itoa(tmdbID)

	if data, err := c.store.Get(ctx, key); err == nil {
		c.incCache("hit")
		return string(data), nil
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("poster cache read failed", zap.Int("tmdb_id", tmdbID), zap.Error(err))
	}

	c.incCache("miss")

	posterURL, err := c.inner.PosterURL(ctx, tmdbID)
	if err != nil {
		return "", fmt.Errorf("fetch poster: %w", err)
	}

	if err := c.store.SetWithTTL(ctx, key, []byte(posterURL), c.ttl); err != nil {
		c.logger.Warn("poster cache write failed", zap.Int("tmdb_id", tmdbID), zap.Error(err))
	}

	return posterURL, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
