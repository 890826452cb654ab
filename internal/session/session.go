// Package session provides the in-memory session store and the per-request
// session capability handed to HTTP handlers.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the opaque session identifier.
const CookieName = "contactbook_session"

// record associates a session identifier with an authenticated user.
type record struct {
	userID    int64
	expiresAt time.Time
}

// Manager owns every live session. Session identifiers are opaque UUIDs; a
// request without a known identifier is anonymous.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]record
	ttl      time.Duration
}

// NewManager creates a Manager whose sessions expire after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]record),
		ttl:      ttl,
	}
}

// Load builds the per-request session Context from the request's cookie.
// A missing or unknown cookie yields an anonymous Context.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Context {
	sc := &Context{mgr: m, w: w}
	if cookie, err := r.Cookie(CookieName); err == nil {
		sc.id = cookie.Value
	}
	return sc
}

// lookup resolves a session identifier to its user id. Expired sessions are
// treated as absent.
func (m *Manager) lookup(id string) (int64, bool) {
	if id == "" {
		return 0, false
	}
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || time.Now().After(rec.expiresAt) {
		return 0, false
	}
	return rec.userID, true
}

// create issues a fresh session identifier bound to userID.
func (m *Manager) create(userID int64) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = record{userID: userID, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return id
}

// destroy invalidates a session identifier entirely.
func (m *Manager) destroy(id string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports the number of tracked sessions, expired ones included until
// the sweeper removes them.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Context is the session capability passed to each request handler. It
// reads the authenticated state and transitions it on login and logout.
type Context struct {
	mgr *Manager
	w   http.ResponseWriter
	id  string
}

// CurrentUserID returns the authenticated user's id, or false when the
// session is anonymous.
func (c *Context) CurrentUserID() (int64, bool) {
	return c.mgr.lookup(c.id)
}

// SetUser tags the session with the authenticated user. A fresh identifier
// is issued on every login; any prior identifier is invalidated.
func (c *Context) SetUser(userID int64) {
	c.mgr.destroy(c.id)
	c.id = c.mgr.create(userID)
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    c.id,
		Path:     "/",
		MaxAge:   int(c.mgr.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Destroy ends the session: the identifier itself is invalidated, not merely
// cleared, and the browser cookie is expired.
func (c *Context) Destroy() {
	c.mgr.destroy(c.id)
	c.id = ""
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
