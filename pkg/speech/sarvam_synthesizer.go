package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prescription-chatbot-be/internal/config"
)

// Synthesizer turns text chunks into one base64 audio payload per chunk
type Synthesizer interface {
	Synthesize(ctx context.Context, chunks []string) ([]string, error)
}

type SarvamSynthesizer struct {
	BaseURL  string
	APIKey   string
	Speaker  string
	Model    string
	Language string
	Pitch    float64
	Pace     float64
	Loudness float64
	Rate     int
	Client   *http.Client
}

// Ensure SarvamSynthesizer implements Synthesizer
var _ Synthesizer = &SarvamSynthesizer{}

func NewSarvamSynthesizer(cfg config.SpeechConfig, apiKey string) *SarvamSynthesizer {
	return &SarvamSynthesizer{
		BaseURL:  cfg.SarvamBaseURL,
		APIKey:   apiKey,
		Speaker:  cfg.Speaker,
		Model:    cfg.Model,
		Language: cfg.TargetLanguage,
		Pitch:    cfg.Pitch,
		Pace:     cfg.Pace,
		Loudness: cfg.Loudness,
		Rate:     cfg.SampleRate,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type ttsRequest struct {
	Speaker             string            `json:"speaker"`
	Loudness            float64           `json:"loudness"`
	SpeechSampleRate    int               `json:"speech_sample_rate"`
	EnablePreprocessing bool              `json:"enable_preprocessing"`
	OverrideTriplets    map[string]string `json:"override_triplets"`
	TargetLanguageCode  string            `json:"target_language_code"`
	Inputs              []string          `json:"inputs"`
	Pitch               float64           `json:"pitch"`
	Pace                float64           `json:"pace"`
	Model               string            `json:"model"`
}

type ttsResponse struct {
	Audios  []string `json:"audios"`
	Message string   `json:"message"`
}

func (s *SarvamSynthesizer) Synthesize(ctx context.Context, chunks []string) ([]string, error) {
	// 1. Prepare Payload
	payloadBytes, err := json.Marshal(ttsRequest{
		Speaker:             s.Speaker,
		Loudness:            s.Loudness,
		SpeechSampleRate:    s.Rate,
		EnablePreprocessing: true,
		OverrideTriplets:    map[string]string{},
		TargetLanguageCode:  s.Language,
		Inputs:              chunks,
		Pitch:               s.Pitch,
		Pace:                s.Pace,
		Model:               s.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// 2. Send Request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/text-to-speech", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// 3. Parse Response
	var parsed ttsResponse
	jsonErr := json.Unmarshal(bodyBytes, &parsed)

	if resp.StatusCode != http.StatusOK {
		message := parsed.Message
		if jsonErr != nil || message == "" {
			message = "No message"
		}
		return nil, fmt.Errorf("TTS API call failed: %s", message)
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", jsonErr)
	}
	if parsed.Audios == nil {
		return nil, fmt.Errorf("API response missing audio data")
	}

	return parsed.Audios, nil
}
