package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/domain"
)

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

func newTestServer(t *testing.T, vectors [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		for i, vec := range vectors {
			resp.Data = append(resp.Data, struct {
				Object    string    `json:"object"`
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{Object: "embedding", Embedding: vec, Index: i})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestVectorize_ReturnsOneVectorPerDocument(t *testing.T) {
	server := newTestServer(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}})
	defer server.Close()

	v := New(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	vectors, err := v.Vectorize(context.Background(), []string{"doc a", "doc b"})
	if err != nil {
		t.Fatalf("Vectorize failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[1][1] != float64(float32(0.4)) {
		t.Errorf("vectors[1][1] = %f, expected 0.4", vectors[1][1])
	}
}

func TestVectorize_CountMismatchIsConstructionFailure(t *testing.T) {
	server := newTestServer(t, [][]float32{{0.1}}) // one vector for two docs
	defer server.Close()

	v := New(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := v.Vectorize(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrVectorizerError) {
		t.Fatalf("expected ErrVectorizerError, got %v", err)
	}
}

func TestVectorize_ProviderErrorIsConstructionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	v := New(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := v.Vectorize(context.Background(), []string{"a"})
	if !errors.Is(err, domain.ErrVectorizerError) {
		t.Fatalf("expected ErrVectorizerError, got %v", err)
	}
}
