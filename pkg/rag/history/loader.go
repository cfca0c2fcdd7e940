package history

import (
	"strings"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/pkg/store"
)

// Format renders turns as "role: content" lines, the shape the retrieval query expects
func Format(turns []store.ConversationTurn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

// WithoutLast returns every turn but the final one (the question currently being answered)
func WithoutLast(turns []store.ConversationTurn) []store.ConversationTurn {
	if len(turns) == 0 {
		return nil
	}
	return turns[:len(turns)-1]
}

// IsPlaceholder reports whether content is the "need more information" action literal.
// Comparison ignores case and surrounding whitespace.
func IsPlaceholder(content string) bool {
	return strings.ToLower(strings.TrimSpace(content)) == strings.ToLower(constant.NeedMoreInformationMessage)
}

// LastRealQuestion scans turns in reverse for the most recent user turn that is not the
// placeholder. ok is false when no such turn exists.
func LastRealQuestion(turns []store.ConversationTurn) (question string, ok bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn.Role != store.RoleUser || IsPlaceholder(turn.Content) {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		return turn.Content, true
	}
	return "", false
}
