package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/dto"
	"prescription-chatbot-be/internal/pkg/artifact"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/internal/pkg/serverutils"
	"prescription-chatbot-be/pkg/ai/pipeline"
	"prescription-chatbot-be/pkg/events"
	"prescription-chatbot-be/pkg/rag/history"
	"prescription-chatbot-be/pkg/rag/session"
	"prescription-chatbot-be/pkg/rag/state"
	"prescription-chatbot-be/pkg/speech"
	"prescription-chatbot-be/pkg/store"
	"prescription-chatbot-be/pkg/translation"
	"prescription-chatbot-be/pkg/utils"
)

// Narrator writes a narration of text to a WAV file; it reports failures instead of returning them
type Narrator interface {
	Narrate(ctx context.Context, text, outputPath string) speech.Result
}

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	RequestMoreInformation(ctx context.Context, request *dto.MoreInformationRequest) (*dto.SendChatResponse, error)
}

// chatbotService coordinates domain components
type chatbotService struct {
	sessionManager *session.Manager
	stateManager   *state.Manager
	escalation     *pipeline.EscalationPipeline
	translator     translation.Translator
	narrator       Narrator
	artifacts      *artifact.Store
	publisher      events.Publisher
	logger         logger.ILogger
}

func NewChatbotService(
	sessionManager *session.Manager,
	stateManager *state.Manager,
	escalation *pipeline.EscalationPipeline,
	translator translation.Translator,
	narrator Narrator,
	artifacts *artifact.Store,
	publisher events.Publisher,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		sessionManager: sessionManager,
		stateManager:   stateManager,
		escalation:     escalation,
		translator:     translator,
		narrator:       narrator,
		artifacts:      artifacts,
		publisher:      publisher,
		logger:         logger,
	}
}

func (cs *chatbotService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	s := cs.sessionManager.Create()
	cs.publisher.Publish(ctx, events.New(events.TypeSessionCreated, map[string]interface{}{"session_id": s.ID}))
	return &dto.CreateSessionResponse{Id: s.ID}, nil
}

func (cs *chatbotService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	unlock := cs.sessionManager.Lock(sessionId)
	defer unlock()

	s, err := cs.getSession(sessionId)
	if err != nil {
		return nil, err
	}

	turns := make([]dto.ChatTurnDTO, 0, len(s.Turns))
	for _, turn := range s.Turns {
		turns = append(turns, dto.ChatTurnDTO{Role: turn.Role, Content: turn.Content})
	}

	res := &dto.GetChatHistoryResponse{
		ChatSessionId:        s.ID,
		Turns:                turns,
		LastQuestion:         s.LastQuestion,
		LastAnswerSufficient: s.LastAnswerSufficient,
	}
	if s.Prescription != nil {
		res.Prescription = prescriptionSummary(s, cs.artifacts, nil)
	}
	return res, nil
}

func (cs *chatbotService) DeleteSession(ctx context.Context, sessionId string) error {
	unlock := cs.sessionManager.Lock(sessionId)
	defer unlock()

	if err := cs.sessionManager.Delete(sessionId); err != nil {
		return notFound(sessionId, err)
	}
	if err := cs.artifacts.RemoveSession(sessionId); err != nil {
		cs.logger.Warn("CHATBOT", "Failed to remove session artifacts", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	cs.publisher.Publish(ctx, events.New(events.TypeSessionDeleted, map[string]interface{}{"session_id": sessionId}))
	return nil
}

func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	unlock := cs.sessionManager.Lock(request.ChatSessionId)
	defer unlock()

	// 1. Load session
	s, err := cs.getSession(request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(request.Chat)
	if question == "" {
		return guidanceResponse(s.ID, constant.EmptyQuestionMessage), nil
	}

	// 2. Record the question
	previous := s.Turns
	cs.stateManager.AskQuestion(s, question)

	// 3. Answer, escalating when needed
	result, err := cs.escalation.Execute(ctx, pipeline.Input{
		Question:             question,
		History:              previous,
		RecentTurns:          s.Turns,
		PrescriptionText:     prescriptionText(s),
		Index:                s.Index,
		NeedsMoreInformation: !s.LastAnswerSufficient,
	})
	if err != nil {
		cs.logger.Error("CHATBOT", "Answer generation failed", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		result = &pipeline.Result{Answer: constant.AnswerGenerationFailed}
	}

	// 4. Record the answer
	cs.stateManager.Answered(s, result.Answer)
	cs.sessionManager.Save(s)

	// 5. Narrate the translated answer
	audio := cs.narrateAnswer(ctx, s.ID, result.Answer, 0)

	cs.publisher.Publish(ctx, events.New(events.TypeQuestionAnswered, map[string]interface{}{
		"session_id": s.ID,
		"question":   question,
		"escalated":  result.Escalated,
		"web_only":   result.WebOnly,
		"reason":     string(result.Reason),
	}))

	return &dto.SendChatResponse{
		ChatSessionId: s.ID,
		Sent:          &dto.ChatTurnDTO{Role: store.RoleUser, Content: question},
		Reply:         &dto.ChatTurnDTO{Role: store.RoleAssistant, Content: result.Answer},
		Sources:       sourceDTOs(result.Sources),
		Mode:          chatMode(result),
		Reason:        string(result.Reason),
		Notice:        notice(result),
		Audio:         audio,
	}, nil
}

func (cs *chatbotService) RequestMoreInformation(ctx context.Context, request *dto.MoreInformationRequest) (*dto.SendChatResponse, error) {
	unlock := cs.sessionManager.Lock(request.ChatSessionId)
	defer unlock()

	s, err := cs.getSession(request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	// 1. Placeholder turn and flag
	cs.stateManager.RequestMoreInformation(s)

	// 2. Find the question the user is not satisfied with
	question, ok := history.LastRealQuestion(s.Turns)
	if !ok {
		cs.stateManager.Guided(s, constant.AskQuestionFirstMessage)
		cs.sessionManager.Save(s)
		return guidanceResponse(s.ID, constant.AskQuestionFirstMessage), nil
	}
	s.LastQuestion = question

	// 3. Escalate unconditionally
	result, err := cs.escalation.Execute(ctx, pipeline.Input{
		Question:         question,
		History:          history.WithoutLast(s.Turns),
		RecentTurns:      s.Turns,
		PrescriptionText: prescriptionText(s),
		Index:            s.Index,
		Force:            true,
	})
	if err != nil {
		cs.logger.Error("CHATBOT", "More information failed", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		result = &pipeline.Result{Answer: constant.AnswerGenerationFailed}
	}

	cs.stateManager.Answered(s, result.Answer)
	cs.sessionManager.Save(s)

	// 4. Narration is capped for this action
	audio := cs.narrateAnswer(ctx, s.ID, result.Answer, constant.MoreInfoNarrationLimit)

	cs.publisher.Publish(ctx, events.New(events.TypeMoreInformationRequested, map[string]interface{}{
		"session_id": s.ID,
		"question":   question,
		"web_only":   result.WebOnly,
	}))

	return &dto.SendChatResponse{
		ChatSessionId: s.ID,
		Sent:          &dto.ChatTurnDTO{Role: store.RoleUser, Content: constant.NeedMoreInformationMessage},
		Reply:         &dto.ChatTurnDTO{Role: store.RoleAssistant, Content: result.Answer},
		Sources:       sourceDTOs(result.Sources),
		Mode:          chatMode(result),
		Reason:        string(result.Reason),
		Notice:        notice(result),
		Audio:         audio,
	}, nil
}

// narrateAnswer translates the answer and writes answer_audio.wav; limit > 0 caps the
// translated text before synthesis
func (cs *chatbotService) narrateAnswer(ctx context.Context, sessionId, answer string, limit int) *dto.AudioDTO {
	translated := translation.TranslateOrFallback(ctx, cs.translator, answer)
	if limit > 0 {
		translated = utils.Truncate(translated, limit)
	}

	res := cs.narrator.Narrate(ctx, translated, cs.artifacts.Path(sessionId, constant.AnswerAudioFile))
	if !res.Success {
		cs.logger.Warn("CHATBOT", "Answer narration failed", map[string]interface{}{
			"session_id": sessionId,
			"message":    res.Message,
		})
		return &dto.AudioDTO{Success: false, Message: res.Message}
	}

	return &dto.AudioDTO{
		URL:     cs.artifacts.URL(sessionId, constant.AnswerAudioFile),
		Success: true,
		Message: res.Message,
	}
}

func (cs *chatbotService) getSession(sessionId string) (*store.Session, error) {
	s, err := cs.sessionManager.Get(sessionId)
	if err != nil {
		return nil, notFound(sessionId, err)
	}
	return s, nil
}

func notFound(sessionId string, err error) error {
	if errors.Is(err, session.ErrSessionNotFound) {
		return fmt.Errorf("session %s: %w", sessionId, serverutils.ErrNotFound)
	}
	return err
}

func prescriptionText(s *store.Session) string {
	if s.Prescription == nil {
		return ""
	}
	return s.Prescription.OriginalText
}

func sourceDTOs(sources []store.SourceDocument) []dto.SourceDTO {
	out := make([]dto.SourceDTO, 0, len(sources))
	for _, doc := range sources {
		locator := doc.Source
		if locator == "" {
			locator = constant.UnknownSourceLocator
		}
		out = append(out, dto.SourceDTO{
			Preview: utils.Truncate(doc.Content, constant.SourcePreviewLimit),
			Source:  locator,
		})
	}
	return out
}

func chatMode(result *pipeline.Result) string {
	switch {
	case result.WebOnly:
		return dto.ChatModeWebOnly
	case result.Escalated:
		return dto.ChatModeEscalated
	default:
		return dto.ChatModeRetrieval
	}
}

func notice(result *pipeline.Result) string {
	if result.Escalated {
		return constant.SearchingTheWebMessage
	}
	return ""
}

func guidanceResponse(sessionId, message string) *dto.SendChatResponse {
	return &dto.SendChatResponse{
		ChatSessionId: sessionId,
		Reply:         &dto.ChatTurnDTO{Role: store.RoleAssistant, Content: message},
		Sources:       []dto.SourceDTO{},
		Mode:          dto.ChatModeGuidance,
	}
}
