package session

import (
	"errors"
	"hash/fnv"
	"sync"

	"prescription-chatbot-be/internal/repository/memory"
	"prescription-chatbot-be/pkg/store"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager handles session operations
type Manager struct {
	sessionRepo *memory.SessionRepository

	// turns of one conversation are processed one at a time; ids hash onto a fixed
	// set of mutexes so the set never grows and never changes under a waiter
	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

// NewManager creates a new session manager
func NewManager(sessionRepo *memory.SessionRepository) *Manager {
	return &Manager{sessionRepo: sessionRepo}
}

// Create starts an empty conversation
func (m *Manager) Create() *store.Session {
	session := newSession(uuid.NewString())
	m.sessionRepo.Save(session)
	return session
}

// Get returns ErrSessionNotFound for unknown or expired ids
func (m *Manager) Get(sessionID string) (*store.Session, error) {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// LoadOrCreate retrieves or creates an in-memory session
func (m *Manager) LoadOrCreate(sessionID string) *store.Session {
	if session, found := m.sessionRepo.Get(sessionID); found {
		return session
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := newSession(sessionID)
	m.sessionRepo.Save(session)
	return session
}

// Save persists session state and refreshes its expiry
func (m *Manager) Save(session *store.Session) {
	m.sessionRepo.Save(session)
}

// Active counts sessions that have not expired yet
func (m *Manager) Active() int {
	return m.sessionRepo.Count()
}

func (m *Manager) Delete(sessionID string) error {
	if _, found := m.sessionRepo.Get(sessionID); !found {
		return ErrSessionNotFound
	}
	m.sessionRepo.Delete(sessionID)
	return nil
}

// Lock serializes work on one session; call the returned func to release it
func (m *Manager) Lock(sessionID string) func() {
	mu := m.stripe(sessionID)
	mu.Lock()
	return mu.Unlock
}

func (m *Manager) stripe(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &m.locks[h.Sum32()%lockStripes]
}

func newSession(id string) *store.Session {
	return &store.Session{
		ID:                   id,
		LastAnswerSufficient: true,
	}
}
