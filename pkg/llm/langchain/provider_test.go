package langchain

import (
	"context"
	"errors"
	"testing"

	"prescription-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type recordingModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	reply    string
	err      error
}

func (m *recordingModel) GenerateContent(_ context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	m.options = llms.CallOptions{}
	for _, opt := range opts {
		opt(&m.options)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestProvider_ChatMapsRoles(t *testing.T) {
	model := &recordingModel{reply: "Take after meals."}
	p := NewProvider(model)

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "when?"},
		{Role: "assistant", Content: "twice daily"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Take after meals.", out)

	require.Len(t, model.messages, 3)
	assert.Equal(t, schema.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, model.messages[2].Role)
}

func TestProvider_CallOptions(t *testing.T) {
	model := &recordingModel{reply: "ok"}
	p := NewProvider(model)

	_, err := p.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 0.0, model.options.Temperature)

	_, err = p.Generate(context.Background(), "hello", llm.WithTemperature(0.7))
	require.NoError(t, err)
	assert.Equal(t, 0.7, model.options.Temperature)
}

func TestProvider_GenerateWrapsError(t *testing.T) {
	p := NewProvider(&recordingModel{err: errors.New("boom")})

	_, err := p.Generate(context.Background(), "hello")
	assert.ErrorContains(t, err, "boom")
}

func TestProvider_EmptyChoices(t *testing.T) {
	p := NewProvider(&emptyModel{})

	_, err := p.Generate(context.Background(), "hello")
	assert.Error(t, err)
}

type emptyModel struct{}

func (emptyModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (emptyModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", nil
}
