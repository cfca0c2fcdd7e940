package dto

type CreateSessionResponse struct {
	Id string `json:"id"`
}

type ChatTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetChatHistoryResponse struct {
	ChatSessionId        string                       `json:"chat_session_id"`
	Turns                []ChatTurnDTO                `json:"turns"`
	LastQuestion         string                       `json:"last_question"`
	LastAnswerSufficient bool                         `json:"last_answer_sufficient"`
	Prescription         *PrescriptionSummaryResponse `json:"prescription,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId string `json:"chat_session_id" validate:"required"`
	Chat          string `json:"chat" validate:"required"`
}

type MoreInformationRequest struct {
	ChatSessionId string `json:"chat_session_id" validate:"required"`
}

// SourceDTO is one entry of the "sources used" list
type SourceDTO struct {
	Preview string `json:"preview"` // first 200 characters
	Source  string `json:"source"`
}

type AudioDTO struct {
	URL     string `json:"url,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SendChatResponse struct {
	ChatSessionId string       `json:"chat_session_id"`
	Sent          *ChatTurnDTO `json:"sent,omitempty"`
	Reply         *ChatTurnDTO `json:"reply"`
	Sources       []SourceDTO  `json:"sources"`
	Mode          string       `json:"mode"` // "retrieval" | "escalated" | "web_only" | "guidance"
	Reason        string       `json:"reason,omitempty"`
	Notice        string       `json:"notice,omitempty"`
	Audio         *AudioDTO    `json:"audio,omitempty"`
}

const (
	ChatModeRetrieval = "retrieval"
	ChatModeEscalated = "escalated"
	ChatModeWebOnly   = "web_only"
	ChatModeGuidance  = "guidance"
)
