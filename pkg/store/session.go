package store

import "context"

// PrescriptionRecord is the text pulled from one uploaded prescription image.
// It is created once per upload and never modified afterwards.
type PrescriptionRecord struct {
	OriginalText   string `json:"original_text"`   // English, at most 500 characters
	TranslatedText string `json:"translated_text"` // Hindi
}

// ConversationTurn is a single chat message. Turns are append-only.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// SourceDocument is a piece of supporting material attached to an answer
type SourceDocument struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// WebResult is a page returned by the web search adapter, reduced to text.
type WebResult struct {
	Text string `json:"text"` // at most 5000 characters
	URL  string `json:"url"`
}

// RetrievalQuery carries everything the retrieval index needs to answer one question.
// PrescriptionText and WebResults are only set when an answer is being escalated.
type RetrievalQuery struct {
	Question         string
	History          string
	PrescriptionText string
	WebResults       []WebResult
	TopK             int
}

// RetrievalAnswer is the generated answer together with the documents it was grounded on
type RetrievalAnswer struct {
	Answer  string
	Sources []SourceDocument
}

// RetrievalIndex answers questions over a prescription. Implementations must not
// change after construction.
type RetrievalIndex interface {
	Query(ctx context.Context, query RetrievalQuery) (*RetrievalAnswer, error)
}

// Session represents the state of one conversation in memory
type Session struct {
	ID string `json:"id"`

	// Set by an upload; nil until the first prescription is processed
	Prescription *PrescriptionRecord `json:"prescription"`
	Index        RetrievalIndex      `json:"-"`

	Turns []ConversationTurn `json:"turns"`

	// Flipped to false by the "need more information" action, reset after every answer
	LastAnswerSufficient bool   `json:"last_answer_sufficient"`
	LastQuestion         string `json:"last_question"`

	// Narration status of the prescription summary
	PrescriptionAudio bool `json:"prescription_audio"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HasIndex reports whether questions can be answered from a prescription
func (s *Session) HasIndex() bool {
	return s.Index != nil
}
