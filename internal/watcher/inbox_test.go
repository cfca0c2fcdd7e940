package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"prescription-chatbot-be/internal/dto"
	"prescription-chatbot-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingProcessor struct {
	mu    sync.Mutex
	calls []string
}

func (p *recordingProcessor) Process(_ context.Context, sessionId string, image []byte, mimeType string) (*dto.PrescriptionSummaryResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, string(image)+"|"+mimeType+"|"+sessionId)
	return &dto.PrescriptionSummaryResponse{ChatSessionId: "new-session"}, nil
}

func (p *recordingProcessor) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func TestInbox_ProcessesDroppedImages(t *testing.T) {
	dir := t.TempDir()
	processor := &recordingProcessor{}

	inbox, err := NewInbox(dir, processor, logger.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		inbox.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
		require.NoError(t, inbox.Stop())
	}()

	// staged outside the inbox, then moved in whole
	staging := t.TempDir()
	src := filepath.Join(staging, "rx.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg-bytes"), 0o644))
	require.NoError(t, os.Rename(src, filepath.Join(dir, "rx.jpg")))

	require.NoError(t, os.WriteFile(filepath.Join(staging, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Rename(filepath.Join(staging, "notes.txt"), filepath.Join(dir, "notes.txt")))

	assert.Eventually(t, func() bool {
		return len(processor.snapshot()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	calls := processor.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "jpeg-bytes|image/jpeg|", calls[0])
}

func TestIsImage(t *testing.T) {
	assert.True(t, isImage("/in/a.PNG"))
	assert.True(t, isImage("b.jpeg"))
	assert.False(t, isImage("c.gif"))
	assert.False(t, isImage("d"))
}
