package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"prescription-chatbot-be/internal/pkg/artifact"
	"prescription-chatbot-be/internal/pkg/logger"
	"prescription-chatbot-be/internal/repository/memory"
	"prescription-chatbot-be/pkg/ai/pipeline"
	"prescription-chatbot-be/pkg/events"
	"prescription-chatbot-be/pkg/rag/session"
	"prescription-chatbot-be/pkg/rag/state"
	"prescription-chatbot-be/pkg/speech"
	"prescription-chatbot-be/pkg/store"
	"prescription-chatbot-be/pkg/websearch"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

// prefixTranslator marks text as translated so tests can tell the two languages apart
type prefixTranslator struct {
	err error
}

func (f *prefixTranslator) Translate(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hi:" + text, nil
}

// fileNarrator writes a stub file instead of synthesizing speech
type fileNarrator struct {
	mu    sync.Mutex
	fail  bool
	texts []string
}

func (f *fileNarrator) Narrate(_ context.Context, text, outputPath string) speech.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.fail {
		return speech.Result{Success: false, Message: "TTS API call failed: No message", CleanedText: text}
	}
	_ = os.MkdirAll(filepath.Dir(outputPath), 0o755)
	_ = os.WriteFile(outputPath, []byte("RIFF"), 0o644)
	return speech.Result{Success: true, Message: "Audio generated successfully.", CleanedText: text}
}

func (f *fileNarrator) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

// queueIndex answers from a queue, repeating the last answer
type queueIndex struct {
	mu      sync.Mutex
	answers []string
	queries []store.RetrievalQuery
}

func (q *queueIndex) Query(_ context.Context, query store.RetrievalQuery) (*store.RetrievalAnswer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queries = append(q.queries, query)
	answer := q.answers[0]
	if len(q.answers) > 1 {
		q.answers = q.answers[1:]
	}
	return &store.RetrievalAnswer{
		Answer:  answer,
		Sources: []store.SourceDocument{{Content: "English Prescription:\nParacetamol 500mg twice daily", Source: ""}},
	}, nil
}

type fakeIndexBuilder struct {
	index store.RetrievalIndex
	err   error
	built []store.PrescriptionRecord
}

func (f *fakeIndexBuilder) BuildForPrescription(_ context.Context, record store.PrescriptionRecord) (store.RetrievalIndex, error) {
	f.built = append(f.built, record)
	if f.err != nil {
		return nil, f.err
	}
	return f.index, nil
}

type stubSearcher struct {
	results []store.WebResult
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string) []store.WebResult {
	s.calls++
	if len(s.results) == 0 {
		return []store.WebResult{websearch.Placeholder()}
	}
	return s.results
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, evt := range p.events {
		out = append(out, evt.EventType())
	}
	return out
}

// fixture wires both services over one in-memory session store
type fixture struct {
	sessions     *session.Manager
	artifacts    *artifact.Store
	extractor    *fakeExtractor
	translator   *prefixTranslator
	narrator     *fileNarrator
	indexBuilder *fakeIndexBuilder
	searcher     *stubSearcher
	publisher    *recordingPublisher

	chatbot      IChatbotService
	prescription IPrescriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNopLogger()
	f := &fixture{
		sessions:     session.NewManager(memory.NewSessionRepository(time.Hour)),
		artifacts:    artifact.NewStore(t.TempDir(), "/artifacts"),
		extractor:    &fakeExtractor{text: "**Take Paracetamol 500mg twice daily for 5 to 7 days.**"},
		translator:   &prefixTranslator{},
		narrator:     &fileNarrator{},
		indexBuilder: &fakeIndexBuilder{},
		searcher:     &stubSearcher{},
		publisher:    &recordingPublisher{},
	}
	stateManager := state.NewManager(log)

	f.chatbot = NewChatbotService(
		f.sessions,
		stateManager,
		pipeline.NewEscalationPipeline(f.searcher, log),
		f.translator,
		f.narrator,
		f.artifacts,
		f.publisher,
		log,
	)
	f.prescription = NewPrescriptionService(
		f.sessions,
		stateManager,
		f.extractor,
		f.translator,
		f.narrator,
		f.indexBuilder,
		f.artifacts,
		f.publisher,
		log,
	)
	return f
}

var errBoom = errors.New("boom")
