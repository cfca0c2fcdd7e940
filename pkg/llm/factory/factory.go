package factory

import (
	"fmt"
	"strings"

	"prescription-chatbot-be/pkg/llm"
	"prescription-chatbot-be/pkg/llm/langchain"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// ModelConfig selects and configures a langchaingo backend
type ModelConfig struct {
	Provider string // "openai" or "ollama"
	Model    string
	BaseURL  string
	Token    string

	// openai only; ollama embeds with Model
	EmbeddingModel string
}

// NewModel builds the raw langchaingo client. The returned value also satisfies
// embeddings.EmbedderClient for both supported providers.
func NewModel(cfg ModelConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "", "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Token, "Bearer ")),
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.EmbeddingModel != "" {
			opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
		}
		return openai.New(opts...)
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.New(
			ollama.WithServerURL(baseURL),
			ollama.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func NewLLMProvider(cfg ModelConfig) (llm.LLMProvider, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	return langchain.NewProvider(model), nil
}

// NewEmbedderClient builds a model for cfg and returns it as an embeddings client
func NewEmbedderClient(cfg ModelConfig) (embeddings.EmbedderClient, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	client, ok := model.(embeddings.EmbedderClient)
	if !ok {
		return nil, fmt.Errorf("provider %s cannot create embeddings", cfg.Provider)
	}
	return client, nil
}
