package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/embeddings"
)

// LangchainProvider implements EmbeddingProvider on top of a langchaingo embedder
// (OpenAI text-embedding-ada-002 or a local Ollama model)
type LangchainProvider struct {
	embedder embeddings.Embedder
}

func NewLangchainProvider(client embeddings.EmbedderClient) (EmbeddingProvider, error) {
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return &LangchainProvider{embedder: embedder}, nil
}

func (p *LangchainProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	values, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// chromem-go uses the dot product as cosine similarity, which requires unit vectors
	return normalizeVector(values), nil
}

// normalizeVector normalizes a vector to unit length (magnitude = 1)
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
