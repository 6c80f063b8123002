package health

import "context"

// CachePinger checks poster cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// PosterProvider reports whether the poster provider is usable.
type PosterProvider interface {
	Configured() bool
}

// CatalogInfo reports the loaded catalog size.
type CatalogInfo interface {
	Len() int
}
