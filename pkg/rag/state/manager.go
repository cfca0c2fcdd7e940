package state

import (
	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/store"
)

// Manager handles session state transitions
type Manager struct {
	logger logger.ILogger
}

// NewManager creates a new state manager
func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger}
}

// AttachPrescription resets the conversation around a freshly processed prescription
func (m *Manager) AttachPrescription(session *store.Session, record store.PrescriptionRecord, index store.RetrievalIndex, audioReady bool) {
	session.Prescription = &record
	session.Index = index
	session.Turns = nil
	session.LastAnswerSufficient = true
	session.LastQuestion = ""
	session.PrescriptionAudio = audioReady
	m.logger.Info("STATE", "Prescription attached", map[string]interface{}{
		"session_id":  session.ID,
		"has_index":   index != nil,
		"audio_ready": audioReady,
	})
}

// AskQuestion records a user question and remembers it as the last real question
func (m *Manager) AskQuestion(session *store.Session, question string) {
	session.Turns = append(session.Turns, store.ConversationTurn{Role: store.RoleUser, Content: question})
	session.LastQuestion = question
}

// RequestMoreInformation records the placeholder turn and flips the sufficiency flag
func (m *Manager) RequestMoreInformation(session *store.Session) {
	session.LastAnswerSufficient = false
	session.Turns = append(session.Turns, store.ConversationTurn{
		Role:    store.RoleUser,
		Content: constant.NeedMoreInformationMessage,
	})
	m.logger.Info("STATE", "More information requested", map[string]interface{}{"session_id": session.ID})
}

// Answered records the assistant turn. The sufficiency flag is reset to true after every
// answer, escalated or not, even when the escalated answer is itself short.
func (m *Manager) Answered(session *store.Session, answer string) {
	session.Turns = append(session.Turns, store.ConversationTurn{Role: store.RoleAssistant, Content: answer})
	session.LastAnswerSufficient = true
}

// Guided records an assistant reply that answers no question; the sufficiency flag is left as is
func (m *Manager) Guided(session *store.Session, message string) {
	session.Turns = append(session.Turns, store.ConversationTurn{Role: store.RoleAssistant, Content: message})
}
