package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/pkg/utils"

	"github.com/sashabaranov/go-openai"
)

// Extractor reads the prescription text out of an image
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (string, error)
}

type OpenAIExtractor struct {
	client *openai.Client
	model  string
	prompt string
}

// Ensure OpenAIExtractor implements Extractor
var _ Extractor = &OpenAIExtractor{}

func NewOpenAIExtractor(apiKey, baseURL, model string) *OpenAIExtractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		prompt: constant.ExtractionPromptV1,
	}
}

// Extract sends the fixed prompt and the image as a data URL. The reply is cleaned and
// truncated; a reply without choices yields "" and no error.
func (e *OpenAIExtractor) Extract(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: e.prompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return CleanExtractedText(resp.Choices[0].Message.Content), nil
}

// CleanExtractedText strips markdown markers, flattens newlines and caps the length
func CleanExtractedText(text string) string {
	return utils.Truncate(utils.StripMarkdown(text), constant.ExtractedTextLimit)
}
