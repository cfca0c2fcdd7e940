package prompt

import (
	"fmt"
	"strings"

	"prescription-chatbot-be/pkg/store"

	"github.com/tmc/langchaingo/prompts"
)

// answerTemplate is rendered with the retrieved documents as {{.context}} and the full
// query text as {{.question}}
const answerTemplate = `Use the following pieces of context to answer the user's question.
The context includes the prescription text, which must be treated as the primary source of information.
If the prescription text does not contain the requested information, say so explicitly, then give an answer based on general knowledge.
ONLY when the question includes additional web information, give a more DETAILED response covering use cases, side effects, contraindications or alternative approaches, and base those details on the web information rather than on your own knowledge.
----------------
{{.context}}

Question: {{.question}}
`

// AnswerBuilder renders the final generator prompt
type AnswerBuilder struct {
	template prompts.PromptTemplate
}

func NewAnswerBuilder() *AnswerBuilder {
	return &AnswerBuilder{
		template: prompts.NewPromptTemplate(answerTemplate, []string{"context", "question"}),
	}
}

// Build stuffs the retrieved documents and the query text into the template
func (b *AnswerBuilder) Build(documents []store.SourceDocument, queryText string) (string, error) {
	contents := make([]string, 0, len(documents))
	for _, doc := range documents {
		contents = append(contents, doc.Content)
	}

	out, err := b.template.Format(map[string]any{
		"context":  strings.Join(contents, "\n\n"),
		"question": queryText,
	})
	if err != nil {
		return "", fmt.Errorf("format answer prompt: %w", err)
	}
	return out, nil
}

// QueryText builds the text that is both embedded for retrieval and shown to the generator.
// Prescription text and web results are only included when web results are present.
func QueryText(q store.RetrievalQuery) string {
	var b strings.Builder

	b.WriteString("Conversation History:\n")
	b.WriteString(q.History)
	b.WriteString("\n\nCurrent Question: ")
	b.WriteString(q.Question)

	if len(q.WebResults) == 0 {
		return b.String()
	}

	b.WriteString("\n\nPrescription Information:\n")
	b.WriteString(q.PrescriptionText)
	b.WriteString("\n\nAdditional Info from Web: ")

	blocks := make([]string, 0, len(q.WebResults))
	for _, item := range q.WebResults {
		blocks = append(blocks, fmt.Sprintf("Web Info from %s:\n%s", item.URL, item.Text))
	}
	b.WriteString(strings.Join(blocks, "\n\n"))

	return b.String()
}

// CombinedPrescription is the single labelled document indexed for a prescription
func CombinedPrescription(record store.PrescriptionRecord) string {
	return fmt.Sprintf("English Prescription:\n%s\n\nHindi Prescription:\n%s", record.OriginalText, record.TranslatedText)
}
