package recommend

import "context"

// PosterFetcher looks up a poster URL by TMDb id. Implemented by the TMDb
// client, optionally wrapped in the poster cache.
type PosterFetcher interface {
	PosterURL(ctx context.Context, tmdbID int) (string, error)
}
