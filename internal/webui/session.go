package webui

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
)

const sessionCookie = "purchase_session"

// Flash levels
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next page render
type Flash struct {
	Level   string
	Message string
}

// Session is the view state of one browser. Hold the lock while reading
// or changing it.
type Session struct {
	sync.Mutex

	ID string

	// Results is the outcome of the last search, in API order
	Results []domain.Purchase

	// LastFilter is nil until a search succeeds
	LastFilter *domain.PurchaseFilter

	// PendingDeletes marks purchases awaiting delete confirmation
	PendingDeletes map[int64]bool

	Flashes     []Flash
	UploadCount int

	lastSeen time.Time
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:             uuid.NewString(),
		PendingDeletes: make(map[int64]bool),
		lastSeen:       now,
	}
}

// AddFlash queues a message for the next render
func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// TakeFlashes returns and clears the queued messages
func (s *Session) TakeFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// SetResults replaces the result set and drops confirmations for
// purchases that are no longer shown
func (s *Session) SetResults(results []domain.Purchase, filter *domain.PurchaseFilter) {
	s.Results = results
	s.LastFilter = filter
	s.PendingDeletes = make(map[int64]bool)
}

// Reset discards the result set and any pending confirmations
func (s *Session) Reset() {
	s.SetResults(nil, nil)
}

// Visible returns the results not awaiting delete confirmation
func (s *Session) Visible() []domain.Purchase {
	visible := make([]domain.Purchase, 0, len(s.Results))
	for _, p := range s.Results {
		if !s.PendingDeletes[p.ID] {
			visible = append(visible, p)
		}
	}
	return visible
}

// Pending returns the results awaiting delete confirmation
func (s *Session) Pending() []domain.Purchase {
	pending := []domain.Purchase{}
	for _, p := range s.Results {
		if s.PendingDeletes[p.ID] {
			pending = append(pending, p)
		}
	}
	return pending
}

// Shows reports whether purchaseID is in the current result set
func (s *Session) Shows(purchaseID int64) bool {
	for _, p := range s.Results {
		if p.ID == purchaseID {
			return true
		}
	}
	return false
}

// SessionStore keeps sessions in memory, keyed by a cookie
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of inactivity
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the caller's session, starting a new one (and setting the
// cookie) when there is none or it expired
func (s *SessionStore) Get(c *gin.Context) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id, err := c.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[id]; ok && !s.expired(sess, now) {
			sess.lastSeen = now
			return sess
		}
	}

	s.sweep(now)

	sess := newSession(now)
	s.sessions[sess.ID] = sess

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	return sess
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

// sweep drops expired sessions; callers hold s.mu
func (s *SessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}
