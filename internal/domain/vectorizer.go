package domain

import "context"

// Vectorizer maps an ordered corpus of fused documents into a shared vector
// space. Every returned vector has the same dimensionality; row i corresponds
// to docs[i]. Implementations must be reproducible for identical ordered
// input.
type Vectorizer interface {
	Vectorize(ctx context.Context, docs []string) ([][]float64, error)
}
