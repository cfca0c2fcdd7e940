package pipeline

import (
	"context"
	"strings"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/pkg/websearch"
)

// WebOnlyPipeline answers without a retrieval index by quoting the web snippets verbatim
type WebOnlyPipeline struct {
	searcher websearch.Searcher
	logger   logger.ILogger
}

func NewWebOnlyPipeline(searcher websearch.Searcher, log logger.ILogger) *WebOnlyPipeline {
	return &WebOnlyPipeline{
		searcher: searcher,
		logger:   log,
	}
}

func (p *WebOnlyPipeline) Execute(ctx context.Context, question string) *Result {
	results := p.searcher.Search(ctx, question)

	texts := make([]string, 0, len(results))
	for _, item := range results {
		texts = append(texts, item.Text)
	}

	answer := constant.WebOnlyAnswerPrefix + strings.Join(texts, " ") + "\n\n" + constant.HealthcareDisclaimer

	p.logger.Info(moduleName, "Web-only answer built", map[string]interface{}{
		"question":    question,
		"web_results": len(results),
	})

	return &Result{
		Answer:     answer,
		Sources:    webSources(results),
		Escalated:  true,
		WebOnly:    true,
		WebResults: results,
	}
}
