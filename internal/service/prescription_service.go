package service

import (
	"context"
	"fmt"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/dto"
	"prescription-chatbot-be/internal/pkg/artifact"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/internal/pkg/serverutils"
	"prescription-chatbot-be/pkg/events"
	"prescription-chatbot-be/pkg/rag/session"
	"prescription-chatbot-be/pkg/rag/state"
	"prescription-chatbot-be/pkg/store"
	"prescription-chatbot-be/pkg/translation"
	"prescription-chatbot-be/pkg/vision"

	"github.com/google/uuid"
)

// IndexBuilder turns a prescription into a queryable retrieval index
type IndexBuilder interface {
	BuildForPrescription(ctx context.Context, record store.PrescriptionRecord) (store.RetrievalIndex, error)
}

type IPrescriptionService interface {
	Process(ctx context.Context, sessionId string, image []byte, mimeType string) (*dto.PrescriptionSummaryResponse, error)
	Get(ctx context.Context, sessionId string) (*dto.PrescriptionSummaryResponse, error)
}

type prescriptionService struct {
	sessionManager *session.Manager
	stateManager   *state.Manager
	extractor      vision.Extractor
	translator     translation.Translator
	narrator       Narrator
	indexBuilder   IndexBuilder
	artifacts      *artifact.Store
	publisher      events.Publisher
	logger         logger.ILogger
}

func NewPrescriptionService(
	sessionManager *session.Manager,
	stateManager *state.Manager,
	extractor vision.Extractor,
	translator translation.Translator,
	narrator Narrator,
	indexBuilder IndexBuilder,
	artifacts *artifact.Store,
	publisher events.Publisher,
	logger logger.ILogger,
) IPrescriptionService {
	return &prescriptionService{
		sessionManager: sessionManager,
		stateManager:   stateManager,
		extractor:      extractor,
		translator:     translator,
		narrator:       narrator,
		indexBuilder:   indexBuilder,
		artifacts:      artifacts,
		publisher:      publisher,
		logger:         logger,
	}
}

// Process runs an uploaded image through extraction, translation, narration and indexing.
// An empty or unknown session id starts a new conversation.
func (ps *prescriptionService) Process(ctx context.Context, sessionId string, image []byte, mimeType string) (*dto.PrescriptionSummaryResponse, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image: %w", serverutils.ErrBadRequest)
	}
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	unlock := ps.sessionManager.Lock(sessionId)
	defer unlock()

	s := ps.sessionManager.LoadOrCreate(sessionId)

	// 1. Extract
	raw, err := ps.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		ps.logger.Error("PRESCRIPTION", "Extraction failed", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("extract prescription: %v: %w", err, serverutils.ErrUpstream)
	}
	original := vision.CleanExtractedText(raw)
	if original == "" {
		return nil, fmt.Errorf("no text extracted from image: %w", serverutils.ErrUpstream)
	}
	ps.writeArtifact(s.ID, constant.ExtractedTextFile, original)

	// 2. Translate
	translated := translation.TranslateOrFallback(ctx, ps.translator, original)
	ps.writeArtifact(s.ID, constant.TranslatedTextFile, translated)

	// 3. Narrate
	audio := ps.narrate(ctx, s.ID, translated)

	// 4. Index; without one, questions fall back to the web
	record := store.PrescriptionRecord{OriginalText: original, TranslatedText: translated}
	index, err := ps.indexBuilder.BuildForPrescription(ctx, record)
	if err != nil {
		ps.logger.Error("PRESCRIPTION", "Index build failed", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		index = nil
	}

	// 5. New prescription, new conversation
	ps.stateManager.AttachPrescription(s, record, index, audio.Success)
	ps.sessionManager.Save(s)

	ps.publisher.Publish(ctx, events.New(events.TypePrescriptionProcessed, map[string]interface{}{
		"session_id":  s.ID,
		"indexed":     index != nil,
		"audio_ready": audio.Success,
		"text_length": len(original),
	}))

	return prescriptionSummary(s, ps.artifacts, audio), nil
}

// Get returns the processed prescription, regenerating its narration when the audio is missing
func (ps *prescriptionService) Get(ctx context.Context, sessionId string) (*dto.PrescriptionSummaryResponse, error) {
	unlock := ps.sessionManager.Lock(sessionId)
	defer unlock()

	s, err := ps.sessionManager.Get(sessionId)
	if err != nil {
		return nil, notFound(sessionId, err)
	}
	if s.Prescription == nil {
		return nil, fmt.Errorf("no prescription uploaded for session %s: %w", sessionId, serverutils.ErrNotFound)
	}

	var audio *dto.AudioDTO
	if !s.PrescriptionAudio || !ps.artifacts.Exists(s.ID, constant.PrescriptionAudioFile) {
		audio = ps.narrate(ctx, s.ID, s.Prescription.TranslatedText)
		s.PrescriptionAudio = audio.Success
		ps.sessionManager.Save(s)
	}

	return prescriptionSummary(s, ps.artifacts, audio), nil
}

func (ps *prescriptionService) narrate(ctx context.Context, sessionId, text string) *dto.AudioDTO {
	res := ps.narrator.Narrate(ctx, text, ps.artifacts.Path(sessionId, constant.PrescriptionAudioFile))
	if res.CleanedText != "" {
		ps.writeArtifact(sessionId, constant.CleanedTextFile, res.CleanedText)
	}
	if !res.Success {
		ps.logger.Warn("PRESCRIPTION", "Narration failed", map[string]interface{}{
			"session_id": sessionId,
			"message":    res.Message,
		})
		return &dto.AudioDTO{Success: false, Message: res.Message}
	}
	return &dto.AudioDTO{
		URL:     ps.artifacts.URL(sessionId, constant.PrescriptionAudioFile),
		Success: true,
		Message: res.Message,
	}
}

func (ps *prescriptionService) writeArtifact(sessionId, name, content string) {
	if err := ps.artifacts.WriteText(sessionId, name, content); err != nil {
		ps.logger.Warn("PRESCRIPTION", "Failed to write artifact", map[string]interface{}{
			"session_id": sessionId,
			"file":       name,
			"error":      err.Error(),
		})
	}
}

// prescriptionSummary falls back to the stored audio status when audio is nil
func prescriptionSummary(s *store.Session, artifacts *artifact.Store, audio *dto.AudioDTO) *dto.PrescriptionSummaryResponse {
	if audio == nil {
		audio = &dto.AudioDTO{Success: s.PrescriptionAudio}
		if s.PrescriptionAudio {
			audio.URL = artifacts.URL(s.ID, constant.PrescriptionAudioFile)
		}
	}
	return &dto.PrescriptionSummaryResponse{
		ChatSessionId:  s.ID,
		OriginalText:   s.Prescription.OriginalText,
		TranslatedText: s.Prescription.TranslatedText,
		Audio:          audio,
		Indexed:        s.HasIndex(),
	}
}
