package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/pkg/embedding"
	"prescription-chatbot-be/pkg/llm"
	"prescription-chatbot-be/pkg/rag/prompt"
	"prescription-chatbot-be/pkg/store"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

const (
	collectionName = "prescription"
	metadataSource = "source"

	// answers should be reproducible for the same prescription and question
	answerTemperature = 0
)

var ErrNoDocuments = errors.New("retrieval index needs at least one document")

// Builder creates one in-memory index per prescription
type Builder struct {
	embedder embedding.EmbeddingProvider
	llm      llm.LLMProvider
	prompts  *prompt.AnswerBuilder
}

func NewBuilder(embedder embedding.EmbeddingProvider, llmProvider llm.LLMProvider) *Builder {
	return &Builder{
		embedder: embedder,
		llm:      llmProvider,
		prompts:  prompt.NewAnswerBuilder(),
	}
}

// Index answers questions over a fixed set of documents. It is never mutated after Build.
type Index struct {
	collection *chromem.Collection
	llm        llm.LLMProvider
	prompts    *prompt.AnswerBuilder
}

// Ensure Index implements RetrievalIndex
var _ store.RetrievalIndex = &Index{}

// BuildForPrescription indexes the combined English and Hindi text as a single document
func (b *Builder) BuildForPrescription(ctx context.Context, record store.PrescriptionRecord) (store.RetrievalIndex, error) {
	idx, err := b.Build(ctx, []store.SourceDocument{{
		Content: prompt.CombinedPrescription(record),
		Source:  constant.PrescriptionSourceLocator,
	}})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (b *Builder) Build(ctx context.Context, documents []store.SourceDocument) (*Index, error) {
	if len(documents) == 0 {
		return nil, ErrNoDocuments
	}

	// one DB per index; sessions never share a collection
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, embedding.ChromemFunc(b.embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(documents))
	for _, doc := range documents {
		docs = append(docs, chromem.Document{
			ID:       uuid.NewString(),
			Content:  doc.Content,
			Metadata: map[string]string{metadataSource: doc.Source},
		})
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return &Index{
		collection: collection,
		llm:        b.llm,
		prompts:    b.prompts,
	}, nil
}

func (i *Index) Query(ctx context.Context, q store.RetrievalQuery) (*store.RetrievalAnswer, error) {
	// 1. Retrieve
	queryText := prompt.QueryText(q)
	sources, err := i.retrieve(ctx, queryText, q.TopK)
	if err != nil {
		return nil, err
	}

	// 2. Stuff into the answer template
	finalPrompt, err := i.prompts.Build(sources, queryText)
	if err != nil {
		return nil, err
	}

	// 3. Generate
	answer, err := i.llm.Generate(ctx, finalPrompt, llm.WithTemperature(answerTemperature))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &store.RetrievalAnswer{
		Answer:  answer,
		Sources: sources,
	}, nil
}

func (i *Index) retrieve(ctx context.Context, queryText string, topK int) ([]store.SourceDocument, error) {
	if topK <= 0 {
		topK = constant.RetrievalTopK
	}
	// chromem rejects nResults larger than the collection
	if count := i.collection.Count(); topK > count {
		topK = count
	}

	results, err := i.collection.Query(ctx, queryText, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	sources := make([]store.SourceDocument, 0, len(results))
	for _, res := range results {
		sources = append(sources, store.SourceDocument{
			Content: res.Content,
			Source:  res.Metadata[metadataSource],
		})
	}
	return sources, nil
}
