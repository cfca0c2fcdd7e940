package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/constant"
)

// Translator turns English text into the configured target language
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type SarvamTranslator struct {
	BaseURL        string
	APIKey         string
	SourceLanguage string
	TargetLanguage string
	Mode           string
	Client         *http.Client
}

// Ensure SarvamTranslator implements Translator
var _ Translator = &SarvamTranslator{}

func NewSarvamTranslator(cfg config.SpeechConfig, apiKey string) *SarvamTranslator {
	return &SarvamTranslator{
		BaseURL:        cfg.SarvamBaseURL,
		APIKey:         apiKey,
		SourceLanguage: cfg.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
		Mode:           cfg.TranslationMode,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type translateRequest struct {
	EnablePreprocessing bool   `json:"enable_preprocessing"`
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	Mode                string `json:"mode"`
}

type translateResponse struct {
	TranslatedText *string `json:"translated_text"`
}

// Translate returns the literal "Translation failed" when the response carries no
// translated_text. Transport errors are returned to the caller.
func (t *SarvamTranslator) Translate(ctx context.Context, text string) (string, error) {
	payloadBytes, err := json.Marshal(translateRequest{
		EnablePreprocessing: true,
		Input:               text,
		SourceLanguageCode:  t.SourceLanguage,
		TargetLanguageCode:  t.TargetLanguage,
		Mode:                t.Mode,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/translate", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", t.APIKey)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed translateResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil || parsed.TranslatedText == nil {
		return constant.TranslationFailedMessage, nil
	}

	return *parsed.TranslatedText, nil
}

// TranslateOrFallback never fails; errors degrade to the "Translation failed" literal
func TranslateOrFallback(ctx context.Context, t Translator, text string) string {
	out, err := t.Translate(ctx, text)
	if err != nil {
		return constant.TranslationFailedMessage
	}
	return out
}
