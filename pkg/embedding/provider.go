package embedding

import (
	"context"

	"github.com/philippgille/chromem-go"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// ChromemFunc exposes a provider as a chromem-go embedding function
func ChromemFunc(provider EmbeddingProvider) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return provider.Generate(ctx, text)
	}
}
