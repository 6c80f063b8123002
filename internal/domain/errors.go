package domain

import "errors"

var (
	// ErrMovieNotFound signals that no catalog title cleared the fuzzy-match
	// cutoff for a query.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrEmptyCatalog signals a snapshot with no rows.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrMalformedSnapshot signals a snapshot missing required columns or
	// with inconsistent indexing.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrPosterUnavailable signals that no poster could be fetched for a movie.
	ErrPosterUnavailable = errors.New("poster unavailable")
	// ErrVectorizerError signals an embedding provider failure during build.
	ErrVectorizerError = errors.New("vectorizer error")
)
