// Package session keeps process-local sessions mapping opaque ids to users.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper/internal/model"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "session_id"

var _ model.IdentityResolver = (*Manager)(nil)

// Manager holds sessions in memory for the lifetime of the process.
// Sessions do not expire.
type Manager struct {
	mu         sync.RWMutex
	userIDs    map[string]int64
	users      model.UserFinder
	cookieName string
}

func NewManager(users model.UserFinder, cookieName string) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{
		userIDs:    make(map[string]int64),
		users:      users,
		cookieName: cookieName,
	}
}

// CreateSession starts a new session for userID.
func (m *Manager) CreateSession(userID int64) (string, bool) {
	if userID <= 0 {
		return "", false
	}

	sessionID := uuid.NewString()

	m.mu.Lock()
	m.userIDs[sessionID] = userID
	m.mu.Unlock()

	return sessionID, true
}

// UserIDForSession returns the user bound to sessionID.
func (m *Manager) UserIDForSession(sessionID string) (int64, bool) {
	if sessionID == "" {
		return 0, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.userIDs[sessionID]
	return userID, ok
}

// DestroySession forgets sessionID. It reports whether the session existed.
func (m *Manager) DestroySession(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.userIDs[sessionID]; !ok {
		return false
	}
	delete(m.userIDs, sessionID)
	return true
}

// CurrentUser loads the user behind a session cookie value.
func (m *Manager) CurrentUser(ctx context.Context, cookieValue string) (user model.User, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			user, ok = model.User{}, false
		}
	}()

	userID, ok := m.UserIDForSession(cookieValue)
	if !ok {
		return model.User{}, false
	}

	user, err := m.users.FindBy(ctx, model.Fields{model.FieldID: userID})
	if err != nil {
		return model.User{}, false
	}

	return user, true
}

// SessionCookie returns the session cookie value of r.
func (m *Manager) SessionCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// ResolveIdentity resolves the session cookie of r.
func (m *Manager) ResolveIdentity(r *http.Request) (model.User, bool) {
	value, ok := m.SessionCookie(r)
	if !ok {
		return model.User{}, false
	}
	return m.CurrentUser(r.Context(), value)
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}
