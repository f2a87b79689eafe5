package site

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ziadkadry99/specstudio/internal/orchestrator"
)

// SessionCookie carries the browser session id.
const SessionCookie = "specstudio_session"

// Sessions maps browser sessions to their orchestrators. The least recently
// used session is evicted once the store is full.
type Sessions struct {
	cache   *lru.Cache[string, *orchestrator.Orchestrator]
	factory func() *orchestrator.Orchestrator
}

// NewSessions creates a store holding at most size sessions.
func NewSessions(size int, factory func() *orchestrator.Orchestrator) (*Sessions, error) {
	cache, err := lru.New[string, *orchestrator.Orchestrator](size)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}
	return &Sessions{cache: cache, factory: factory}, nil
}

// Get returns the request's orchestrator, starting a new session and setting
// its cookie when the request has none or its session was evicted.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *orchestrator.Orchestrator {
	o, cookie := s.resolve(r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return o
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}

// resolve returns the session for r. The cookie is non-nil only for a new
// session.
func (s *Sessions) resolve(r *http.Request) (*orchestrator.Orchestrator, *http.Cookie) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if o, ok := s.cache.Get(c.Value); ok {
			return o, nil
		}
	}

	id := uuid.NewString()
	o := s.factory()
	s.cache.Add(id, o)
	return o, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
