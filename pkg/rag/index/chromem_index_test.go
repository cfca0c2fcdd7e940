package index

import (
	"context"
	"math"
	"strings"
	"testing"

	"prescription-chatbot-be/pkg/llm"
	"prescription-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder maps text onto a tiny deterministic vector space
type keywordEmbedder struct{}

func (keywordEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := []float32{0.1, 0.1, 0.1}
	if strings.Contains(lower, "paracetamol") {
		vec[0] = 1
	}
	if strings.Contains(lower, "cetirizine") {
		vec[1] = 1
	}
	if strings.Contains(lower, "rest") {
		vec[2] = 1
	}
	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	// chromem expects normalized vectors
	norm := float32(1 / math.Sqrt(mag))
	for i := range vec {
		vec[i] *= norm
	}
	return vec, nil
}

type capturingLLM struct {
	prompt string
	reply  string
}

func (c *capturingLLM) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	return c.Generate(ctx, history[len(history)-1].Content)
}

func (c *capturingLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	c.prompt = prompt
	return c.reply, nil
}

func TestBuildForPrescription_QueryReturnsPrescriptionSource(t *testing.T) {
	gen := &capturingLLM{reply: "Take Paracetamol 500mg twice daily for five to seven days after meals."}
	builder := NewBuilder(keywordEmbedder{}, gen)

	idx, err := builder.BuildForPrescription(context.Background(), store.PrescriptionRecord{
		OriginalText:   "Take Paracetamol 500mg twice daily for 5 to 7 days.",
		TranslatedText: "पैरासिटामोल 500mg दिन में दो बार लें।",
	})
	require.NoError(t, err)

	// TopK 2 is clamped to the single indexed document
	ans, err := idx.Query(context.Background(), store.RetrievalQuery{
		Question: "How often do I take Paracetamol?",
		TopK:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, gen.reply, ans.Answer)
	require.Len(t, ans.Sources, 1)
	assert.Equal(t, "prescription", ans.Sources[0].Source)
	assert.Contains(t, ans.Sources[0].Content, "English Prescription:\nTake Paracetamol")
	assert.Contains(t, ans.Sources[0].Content, "Hindi Prescription:\n")

	assert.Contains(t, gen.prompt, "Current Question: How often do I take Paracetamol?")
	assert.Contains(t, gen.prompt, "English Prescription:")
}

func TestBuild_TopKNearest(t *testing.T) {
	gen := &capturingLLM{reply: "ok"}
	idx, err := NewBuilder(keywordEmbedder{}, gen).Build(context.Background(), []store.SourceDocument{
		{Content: "Paracetamol for fever", Source: "a"},
		{Content: "Cetirizine for allergy", Source: "b"},
		{Content: "Get plenty of rest", Source: "c"},
	})
	require.NoError(t, err)

	ans, err := idx.Query(context.Background(), store.RetrievalQuery{Question: "cetirizine", TopK: 2})
	require.NoError(t, err)
	require.Len(t, ans.Sources, 2)
	assert.Equal(t, "b", ans.Sources[0].Source)
}

func TestBuild_RequiresDocuments(t *testing.T) {
	_, err := NewBuilder(keywordEmbedder{}, &capturingLLM{}).Build(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestQuery_IncludesWebResults(t *testing.T) {
	gen := &capturingLLM{reply: "detailed"}
	idx, err := NewBuilder(keywordEmbedder{}, gen).Build(context.Background(), []store.SourceDocument{
		{Content: "Paracetamol", Source: "prescription"},
	})
	require.NoError(t, err)

	_, err = idx.Query(context.Background(), store.RetrievalQuery{
		Question:         "side effects?",
		PrescriptionText: "Paracetamol",
		WebResults:       []store.WebResult{{Text: "Nausea", URL: "https://x.example"}},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, "Web Info from https://x.example:\nNausea")
}
