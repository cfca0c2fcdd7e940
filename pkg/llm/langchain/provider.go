package langchain

import (
	"context"
	"fmt"

	"prescription-chatbot-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Provider adapts any langchaingo model (openai, ollama) to llm.LLMProvider
type Provider struct {
	Model       llms.Model
	Temperature float64
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

func NewProvider(model llms.Model) *Provider {
	return &Provider{
		Model:       model,
		Temperature: 0, // answers must stay close to the prescription
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	// 1. Process Options
	options := llm.Apply(opts...)
	temperature := p.Temperature
	if options.Temperature != nil {
		temperature = *options.Temperature
	}

	// 2. Map generic messages to langchaingo message content
	messages := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		messages = append(messages, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	// 3. Call options
	callOpts := []llms.CallOption{llms.WithTemperature(temperature)}

	// 4. Generate
	resp, err := p.Model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return resp.Choices[0].Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case "system":
		return schema.ChatMessageTypeSystem
	case "assistant", "model":
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
