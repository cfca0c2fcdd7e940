package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store lays out per-session side-effect files under one directory that is also
// served statically under URLPrefix. Files are overwritten on every event.
type Store struct {
	BaseDir   string
	URLPrefix string
}

func NewStore(baseDir, urlPrefix string) *Store {
	return &Store{
		BaseDir:   baseDir,
		URLPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

func (s *Store) Path(sessionID, name string) string {
	return filepath.Join(s.BaseDir, sessionID, name)
}

func (s *Store) URL(sessionID, name string) string {
	return fmt.Sprintf("%s/%s/%s", s.URLPrefix, sessionID, name)
}

func (s *Store) WriteText(sessionID, name, content string) error {
	path := s.Path(sessionID, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func (s *Store) Exists(sessionID, name string) bool {
	info, err := os.Stat(s.Path(sessionID, name))
	return err == nil && !info.IsDir()
}

// RemoveSession deletes every artifact of a session
func (s *Store) RemoveSession(sessionID string) error {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return fmt.Errorf("invalid session id %q", sessionID)
	}
	return os.RemoveAll(filepath.Join(s.BaseDir, sessionID))
}
