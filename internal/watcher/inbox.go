// Package watcher processes prescription images dropped into an inbox directory.
package watcher

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"prescription-chatbot-be/internal/dto"
	"prescription-chatbot-be/internal/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// Processor is the part of the prescription service the inbox needs
type Processor interface {
	Process(ctx context.Context, sessionId string, image []byte, mimeType string) (*dto.PrescriptionSummaryResponse, error)
}

// Inbox turns every image created in dir into a fresh session. Files should be moved in
// whole; a file still being written may be read half-way.
type Inbox struct {
	dir       string
	processor Processor
	logger    logger.ILogger
	watcher   *fsnotify.Watcher
}

func NewInbox(dir string, processor Processor, logger logger.ILogger) (*Inbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Inbox{
		dir:       dir,
		processor: processor,
		logger:    logger,
		watcher:   w,
	}, nil
}

// Run blocks until ctx is done or the watcher is closed
func (in *Inbox) Run(ctx context.Context) {
	in.logger.Info("INBOX", "Watching inbox", map[string]interface{}{"dir": in.dir})
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != fsnotify.Create || !isImage(event.Name) {
				continue
			}
			in.process(ctx, event.Name)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.logger.Error("INBOX", "Watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (in *Inbox) Stop() error {
	return in.watcher.Close()
}

func (in *Inbox) process(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		in.logger.Error("INBOX", "Failed to read image", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}

	res, err := in.processor.Process(ctx, "", data, mimeType(path))
	if err != nil {
		in.logger.Error("INBOX", "Failed to process image", map[string]interface{}{"path": path, "error": err.Error()})
	} else {
		in.logger.Info("INBOX", "Prescription processed", map[string]interface{}{
			"path":        path,
			"session_id":  res.ChatSessionId,
			"audio_ready": res.Audio != nil && res.Audio.Success,
		})
	}
}

func isImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func mimeType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "image/png"
}
