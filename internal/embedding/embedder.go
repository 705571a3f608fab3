// Package embedding provides text embedding generation with multiple backend support.
package embedding

import (
	"context"
	"fmt"

	"github.com/clinicai/clinicai-go/internal/config"
)

// Embedder defines the interface for text embedding providers.
// Implementations include Ollama (local) and OpenAI (API).
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than multiple Embed calls for bulk operations.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	// Must match the qdrant collection's vector size.
	Dimension() int
}

// New creates an Embedder based on the provided configuration.
func New(cfg config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires API key")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel), nil

	case config.EmbeddingOllama:
		return NewOllamaClient(cfg.EmbeddingModel, 0)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.EmbeddingProvider)
	}
}
