package dto

// PrescriptionSummaryResponse is both language texts and the narration of one prescription
type PrescriptionSummaryResponse struct {
	ChatSessionId  string    `json:"chat_session_id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	Audio          *AudioDTO `json:"audio"`
	Indexed        bool      `json:"indexed"`
}
