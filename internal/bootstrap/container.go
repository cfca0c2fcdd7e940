package bootstrap

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"prescription-chatbot-be/internal/config"
	"prescription-chatbot-be/internal/controller"
	"prescription-chatbot-be/internal/pkg/artifact"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/internal/repository/memory"
	"prescription-chatbot-be/internal/service"
	"prescription-chatbot-be/pkg/ai/pipeline"
	"prescription-chatbot-be/pkg/embedding"
	"prescription-chatbot-be/pkg/events"
	"prescription-chatbot-be/pkg/llm/factory"
	"prescription-chatbot-be/pkg/rag/index"
	"prescription-chatbot-be/pkg/rag/session"
	"prescription-chatbot-be/pkg/rag/state"
	"prescription-chatbot-be/pkg/speech"
	"prescription-chatbot-be/pkg/translation"
	"prescription-chatbot-be/pkg/vision"
	"prescription-chatbot-be/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const artifactURLPrefix = "/artifacts"

type Container struct {
	// Controllers
	ChatbotController      controller.IChatbotController
	PrescriptionController controller.IPrescriptionController
	HealthController       controller.IHealthController

	// Background services (run from main.go)
	AuditService        service.IAuditService
	PrescriptionService service.IPrescriptionService

	Artifacts *artifact.Store
	Logger    logger.ILogger
	PubSub    *gochannel.GoChannel
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	// 1. Loggers
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := logger.NewIsolatedLogger(filepath.Join(cfg.App.LogDir, "llm_rag.log"))
	auditLogger := logger.NewIsolatedLogger(filepath.Join(cfg.App.LogDir, "audit.log"))

	// 2. Event Bus; publish returns once the audit consumer has acked
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	publisher := events.NewChannelPublisher(pubSub, events.AuditTopic, sysLogger)
	auditService := service.NewAuditService(pubSub, events.AuditTopic, auditLogger, sysLogger)

	// 3. Model providers
	llmProvider, err := factory.NewLLMProvider(factory.ModelConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  providerBaseURL(cfg.Ai.LLMProvider, cfg),
		Token:    cfg.Keys.OpenAI,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	embedderClient, err := factory.NewEmbedderClient(factory.ModelConfig{
		Provider:       cfg.Ai.EmbeddingProvider,
		Model:          cfg.Ai.EmbeddingModel,
		BaseURL:        providerBaseURL(cfg.Ai.EmbeddingProvider, cfg),
		Token:          cfg.Keys.OpenAI,
		EmbeddingModel: cfg.Ai.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	embeddingProvider, err := embedding.NewLangchainProvider(embedderClient)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{"provider": cfg.Ai.EmbeddingProvider, "model": cfg.Ai.EmbeddingModel})

	// 4. External adapters
	extractor := vision.NewOpenAIExtractor(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.VisionModel)

	if cfg.Keys.Sarvam == "" {
		sysLogger.Warn("BOOTSTRAP", "SARVAM_API_KEY is empty, translation and narration will fail", nil)
	}
	translator := translation.NewSarvamTranslator(cfg.Speech, cfg.Keys.Sarvam)
	narrator := speech.NewNarrator(speech.NewSarvamSynthesizer(cfg.Speech, cfg.Keys.Sarvam), cfg.Speech.SampleRate)

	searcher, err := websearch.NewGoogleSearcher(ctx, cfg.Search, ragLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize web search: %v", err)
	}

	// 5. Session state
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)
	sessionManager := session.NewManager(sessionRepo)
	stateManager := state.NewManager(sysLogger)
	artifacts := artifact.NewStore(cfg.App.OutputDir, artifactURLPrefix)

	// 6. Services
	indexBuilder := index.NewBuilder(embeddingProvider, llmProvider)
	escalation := pipeline.NewEscalationPipeline(searcher, ragLogger)

	chatbotService := service.NewChatbotService(
		sessionManager,
		stateManager,
		escalation,
		translator,
		narrator,
		artifacts,
		publisher,
		sysLogger,
	)
	prescriptionService := service.NewPrescriptionService(
		sessionManager,
		stateManager,
		extractor,
		translator,
		narrator,
		indexBuilder,
		artifacts,
		publisher,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ChatbotController:      controller.NewChatbotController(chatbotService),
		PrescriptionController: controller.NewPrescriptionController(prescriptionService),
		HealthController:       controller.NewHealthController(sessionManager),

		AuditService:        auditService,
		PrescriptionService: prescriptionService,

		Artifacts: artifacts,
		Logger:    sysLogger,
		PubSub:    pubSub,
	}
}

func providerBaseURL(provider string, cfg *config.Config) string {
	if provider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
