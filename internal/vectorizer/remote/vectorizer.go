// Package remote vectorizes fused documents with an OpenAI-compatible
// embedding API. It is an optional alternative to the TF-IDF vectorizer,
// selected via engine.vectorizer in the config.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/metrics"
)

// batchSize caps documents per embedding request to stay under provider
// payload limits.
const batchSize = 64

// Vectorizer calls an OpenAI-compatible embeddings endpoint.
type Vectorizer struct {
	client *openai.Client
	model  openai.EmbeddingModel
	logger *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// New creates an embedding-backed vectorizer.
func New(cfg *Config) *Vectorizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Vectorizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		logger: cfg.Logger,
	}
}

// Vectorize implements domain.Vectorizer. Any provider failure aborts the
// build: the engine never starts on a partially vectorized corpus.
func (v *Vectorizer) Vectorize(ctx context.Context, docs []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(docs))

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch, err := v.embedBatch(ctx, docs[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed documents [%d:%d]: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (v *Vectorizer) embedBatch(ctx context.Context, docs []string) ([][]float64, error) {
	start := time.Now()

	resp, err := v.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          docs,
		Model:          v.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		metrics.VectorizeRequestsTotal.WithLabelValues(string(v.model), "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Data) != len(docs) {
		metrics.VectorizeRequestsTotal.WithLabelValues(string(v.model), "error").Inc()
		return nil, fmt.Errorf("%w: got %d embeddings for %d documents",
			domain.ErrVectorizerError, len(resp.Data), len(docs))
	}

	metrics.VectorizeRequestsTotal.WithLabelValues(string(v.model), "success").Inc()
	metrics.VectorizeRequestDuration.WithLabelValues(string(v.model)).Observe(time.Since(start).Seconds())

	vectors := make([][]float64, len(docs))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float64(f)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// parseAPIError extracts a readable message and wraps it with
// domain.ErrVectorizerError so main can report a construction failure.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrVectorizerError)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrVectorizerError)
	}

	return fmt.Errorf("embedding request failed: %w", domain.ErrVectorizerError)
}
