package whatsapp

import (
	"sync"
	"time"

	"github.com/mamadbah2/cement/internal/domain/models"
)

// DefaultConfirmationTTL is how long a destructive command waits for "yes".
const DefaultConfirmationTTL = 10 * time.Minute

type pendingCommand struct {
	cmd     models.Command
	expires time.Time
}

// SessionManager holds the destructive command each sender still has to confirm.
type SessionManager struct {
	pending map[string]pendingCommand
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &SessionManager{
		pending: make(map[string]pendingCommand),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Await stores cmd as the sender's command awaiting confirmation,
// replacing any earlier one.
func (sm *SessionManager) Await(userID string, cmd models.Command) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.pending[userID] = pendingCommand{cmd: cmd, expires: sm.now().Add(sm.ttl)}
}

// Take removes and returns the sender's pending command if it has not expired.
func (sm *SessionManager) Take(userID string) (models.Command, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	p, ok := sm.pending[userID]
	if !ok {
		return models.Command{}, false
	}
	delete(sm.pending, userID)
	if sm.now().After(p.expires) {
		return models.Command{}, false
	}
	return p.cmd, true
}

// ClearSession drops a sender's pending command.
func (sm *SessionManager) ClearSession(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.pending, userID)
}
