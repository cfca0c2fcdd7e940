// Package policy decides when a retrieval answer needs to be supplemented with web search.
// Everything here is pure: no I/O, no session mutation.
package policy

import (
	"strings"
	"unicode/utf8"

	"prescription-chatbot-be/pkg/store"
)

const (
	// MinAnswerLength is the shortest answer (in characters) accepted without escalation
	MinAnswerLength = 50

	// RecentTurnWindow is how many trailing turns are scanned for dissatisfaction markers
	RecentTurnWindow = 2
)

var (
	insufficientAnswerMarkers = []string{
		"i don't have enough information",
		"not mentioned",
	}
	dissatisfactionMarkers = []string{
		"more information",
		"not clear",
	}
)

// Signal is everything the policy looks at for one question
type Signal struct {
	Answer      string
	Question    string
	RecentTurns []store.ConversationTurn

	// Set when the user explicitly asked for more information (last_answer_sufficient == false)
	NeedsMoreInformation bool
}

// Reason names the first rule that fired
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMarker           Reason = "ANSWER_MARKER"
	ReasonTooShort         Reason = "ANSWER_TOO_SHORT"
	ReasonAlternatives     Reason = "ALTERNATIVES_MISSING"
	ReasonUserNotSatisfied Reason = "USER_NOT_SATISFIED"
	ReasonManualEscalation Reason = "MANUAL_ESCALATION"
)

// IsInsufficient applies the answer-level rules: refusal markers, the length floor and
// the "alternatives" question check.
func IsInsufficient(answer, question string) bool {
	return answerReason(answer, question) != ReasonNone
}

// UserNotSatisfied reports whether any of the recent turns signals dissatisfaction
func UserNotSatisfied(recent []store.ConversationTurn) bool {
	for _, turn := range recent {
		content := strings.ToLower(turn.Content)
		for _, marker := range dissatisfactionMarkers {
			if strings.Contains(content, marker) {
				return true
			}
		}
	}
	return false
}

// ShouldEscalate is true when any answer-level or conversation-level rule fires
func ShouldEscalate(sig Signal) bool {
	return Evaluate(sig) != ReasonNone
}

// Evaluate returns the reason escalation is needed, or ReasonNone
func Evaluate(sig Signal) Reason {
	if reason := answerReason(sig.Answer, sig.Question); reason != ReasonNone {
		return reason
	}
	if UserNotSatisfied(Recent(sig.RecentTurns)) {
		return ReasonUserNotSatisfied
	}
	if sig.NeedsMoreInformation {
		return ReasonManualEscalation
	}
	return ReasonNone
}

// Recent returns the trailing RecentTurnWindow turns
func Recent(turns []store.ConversationTurn) []store.ConversationTurn {
	if len(turns) <= RecentTurnWindow {
		return turns
	}
	return turns[len(turns)-RecentTurnWindow:]
}

func answerReason(answer, question string) Reason {
	// models like to answer with a typographic apostrophe
	lowerAnswer := strings.ReplaceAll(strings.ToLower(answer), "’", "'")

	for _, marker := range insufficientAnswerMarkers {
		if strings.Contains(lowerAnswer, marker) {
			return ReasonMarker
		}
	}

	if utf8.RuneCountInString(answer) < MinAnswerLength {
		return ReasonTooShort
	}

	if strings.Contains(strings.ToLower(question), "alternatives") && !strings.Contains(lowerAnswer, "alternatives") {
		return ReasonAlternatives
	}

	return ReasonNone
}
