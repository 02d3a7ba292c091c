package web

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/courseline-dev/courseline/internal/discussion"
)

const sessionCookie = "courselineSession"

// SessionRegistry hands out one long-lived controller per browser session,
// so view state (open thread, feed list, error banner) survives across
// requests the way it would in a single-page UI.
type SessionRegistry struct {
	mu          sync.Mutex
	controllers map[string]*discussion.Controller
	factory     func() *discussion.Controller
}

func NewSessionRegistry(factory func() *discussion.Controller) *SessionRegistry {
	return &SessionRegistry{
		controllers: make(map[string]*discussion.Controller),
		factory:     factory,
	}
}

// Controller returns the session's controller, minting a session cookie and
// a fresh controller for first-time visitors.
func (s *SessionRegistry) Controller(w http.ResponseWriter, r *http.Request) *discussion.Controller {
	var id string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		id = cookie.Value
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	controller, ok := s.controllers[id]
	if !ok {
		controller = s.factory()
		s.controllers[id] = controller
	}
	return controller
}
