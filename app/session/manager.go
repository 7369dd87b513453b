package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// Manager ties sessions to requests through a cookie holding the session id.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Load returns the session referenced by the request cookie, or a fresh one.
// Store failures are logged and yield a fresh session.
func (m *Manager) Load(ctx context.Context, r *http.Request) *Session {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return New()
	}

	sess, err := m.store.Load(ctx, c.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.Printf("Failed to load session (starting a new one): %v", err)
		}
		return New()
	}
	return sess
}

// Save persists a modified session and sets the cookie.
// Untouched sessions are left alone so browsing does not create records.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if !sess.Modified() {
		return nil
	}

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	sess.modified = false
	return nil
}
