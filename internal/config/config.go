package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Keys   APIKeys
	Ai     AIConfig
	Speech SpeechConfig
	Search SearchConfig
	Otel   OtelConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	LogDir             string
	CorsAllowedOrigins string
	OutputDir          string // side-effect artifacts, one sub-folder per session
	InboxDir           string // optional: prescription images dropped here are processed
	SessionTTLMinutes  int
}

type APIKeys struct {
	OpenAI string
	Sarvam string
}

type AIConfig struct {
	OpenAIBaseURL     string
	VisionModel       string // e.g. "gpt-4o"
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
}

type SpeechConfig struct {
	SarvamBaseURL   string
	SourceLanguage  string
	TargetLanguage  string
	TranslationMode string
	Speaker         string
	Model           string
	Pitch           float64
	Pace            float64
	Loudness        float64
	SampleRate      int
}

type SearchConfig struct {
	BaseURL            string
	APIKey             string
	EngineID           string
	ServiceAccountFile string
	ResultLimit        int
	FetchTimeoutSecs   int
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			LogDir:             getEnv("LOG_DIR", "logs"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			OutputDir:          getEnv("OUTPUT_DIR", "artifacts"),
			InboxDir:           getEnv("INBOX_DIR", ""),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
			Sarvam: getEnv("SARVAM_API_KEY", ""),
		},
		Ai: AIConfig{
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			VisionModel:       getEnv("VISION_MODEL", "gpt-4o"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Speech: SpeechConfig{
			SarvamBaseURL:   getEnv("SARVAM_BASE_URL", "https://api.sarvam.ai"),
			SourceLanguage:  getEnv("SOURCE_LANGUAGE", "en-IN"),
			TargetLanguage:  getEnv("TARGET_LANGUAGE", "hi-IN"),
			TranslationMode: getEnv("TRANSLATION_MODE", "classic-colloquial"),
			Speaker:         getEnv("TTS_SPEAKER", "meera"),
			Model:           getEnv("TTS_MODEL", "bulbul:v1"),
			Pitch:           getEnvAsFloat("TTS_PITCH", 0.5),
			Pace:            getEnvAsFloat("TTS_PACE", 1),
			Loudness:        getEnvAsFloat("TTS_LOUDNESS", 1),
			SampleRate:      getEnvAsInt("TTS_SAMPLE_RATE", 22050),
		},
		Search: SearchConfig{
			BaseURL:            getEnv("GOOGLE_SEARCH_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
			APIKey:             getEnv("GOOGLE_SEARCH_API_KEY", ""),
			EngineID:           getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),
			ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
			ResultLimit:        getEnvAsInt("WEB_SEARCH_RESULTS", 3),
			FetchTimeoutSecs:   getEnvAsInt("WEB_FETCH_TIMEOUT_SECONDS", 5),
		},
		Otel: OtelConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "prescription-chatbot-backend"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
