package memory

import (
	"time"

	"prescription-chatbot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl after their last save and purges
// expired ones every ttl/6
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return newSessionRepository(ttl, ttl/6)
}

func newSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count skips sessions that expired but have not been purged yet
func (r *SessionRepository) Count() int {
	return len(r.cache.Items())
}
