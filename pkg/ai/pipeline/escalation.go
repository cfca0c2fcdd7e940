package pipeline

import (
	"context"
	"fmt"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/rag/history"
	"prescription-chatbot-be/pkg/rag/policy"
	"prescription-chatbot-be/pkg/store"
	"prescription-chatbot-be/pkg/websearch"
)

const moduleName = "ESCALATION"

// Input describes one question to answer
type Input struct {
	Question string

	// Turns that precede the question, rendered as the conversation history
	History []store.ConversationTurn

	// Used for the dissatisfaction markers; usually the full turn list including the question
	RecentTurns []store.ConversationTurn

	PrescriptionText string
	Index            store.RetrievalIndex

	// Session flag: the user explicitly asked for more information
	NeedsMoreInformation bool

	// Skip the initial retrieval and escalate straight away (manual action)
	Force bool
}

// Result is the displayed answer plus how it was produced
type Result struct {
	Answer     string
	Sources    []store.SourceDocument
	Reason     policy.Reason
	Escalated  bool
	WebOnly    bool
	WebResults []store.WebResult
}

// EscalationPipeline answers from the retrieval index and falls back to web search at most
// once per question
type EscalationPipeline struct {
	searcher websearch.Searcher
	webOnly  *WebOnlyPipeline
	logger   logger.ILogger
}

func NewEscalationPipeline(searcher websearch.Searcher, log logger.ILogger) *EscalationPipeline {
	return &EscalationPipeline{
		searcher: searcher,
		webOnly:  NewWebOnlyPipeline(searcher, log),
		logger:   log,
	}
}

func (p *EscalationPipeline) Execute(ctx context.Context, in Input) (*Result, error) {
	// 0. No prescription processed yet: web-only answer
	if in.Index == nil {
		p.logger.Info(moduleName, "No retrieval index, answering from the web", map[string]interface{}{"question": in.Question})
		return p.webOnly.Execute(ctx, in.Question), nil
	}

	historyText := history.Format(in.History)
	reason := policy.ReasonManualEscalation

	// 1. Initial query
	if !in.Force {
		initial, err := in.Index.Query(ctx, store.RetrievalQuery{
			Question: in.Question,
			History:  historyText,
			TopK:     constant.RetrievalTopK,
		})
		if err != nil {
			return nil, fmt.Errorf("initial retrieval: %w", err)
		}

		// 2. Sufficiency check
		reason = policy.Evaluate(policy.Signal{
			Answer:               initial.Answer,
			Question:             in.Question,
			RecentTurns:          in.RecentTurns,
			NeedsMoreInformation: in.NeedsMoreInformation,
		})
		p.logger.Info(moduleName, "Sufficiency evaluated", map[string]interface{}{
			"question":      in.Question,
			"answer_length": len([]rune(initial.Answer)),
			"reason":        string(reason),
		})

		if reason == policy.ReasonNone {
			return &Result{
				Answer:  initial.Answer,
				Sources: initial.Sources,
				Reason:  reason,
			}, nil
		}
	}

	// 3. Escalate once: web search then re-query with the extra context
	webResults := p.searcher.Search(ctx, in.Question)

	escalated, err := in.Index.Query(ctx, store.RetrievalQuery{
		Question:         in.Question,
		History:          historyText,
		PrescriptionText: in.PrescriptionText,
		WebResults:       webResults,
		TopK:             constant.RetrievalTopK,
	})
	if err != nil {
		return nil, fmt.Errorf("escalated retrieval: %w", err)
	}

	answer := escalated.Answer

	// 4. Nothing on the web: say so in front of the general answer
	if websearch.IsPlaceholderOnly(webResults) {
		answer = fmt.Sprintf(constant.GeneralAnswerPrefixFormat, in.Question) + answer
	}

	sources := append([]store.SourceDocument{}, escalated.Sources...)
	sources = append(sources, webSources(webResults)...)

	p.logger.Info(moduleName, "Answer escalated", map[string]interface{}{
		"question":     in.Question,
		"reason":       string(reason),
		"web_results":  len(webResults),
		"answer_chars": len([]rune(answer)),
	})

	return &Result{
		Answer:     answer,
		Sources:    sources,
		Reason:     reason,
		Escalated:  true,
		WebResults: webResults,
	}, nil
}

func webSources(results []store.WebResult) []store.SourceDocument {
	docs := make([]store.SourceDocument, 0, len(results))
	for _, item := range results {
		docs = append(docs, store.SourceDocument{Content: item.Text, Source: item.URL})
	}
	return docs
}
