package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/giannis84/favorites-admin/internal/logging"
)

const CookieName = "favorites_session"

// Manager attaches a session to every request and persists it on demand.
type Manager struct {
	store  Store
	ttl    time.Duration
	path   string
	secure bool
}

// NewManager returns a Manager whose cookies are scoped to path.
func NewManager(store Store, ttl time.Duration, path string, secure bool) *Manager {
	return &Manager{store: store, ttl: ttl, path: path, secure: secure}
}

// Middleware loads the session named by the request cookie, starting a new
// one when the cookie is missing, malformed or expired. A stored session that
// cannot be read is discarded.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := sessionID(r)

		var data *Data
		if id != "" {
			loaded, err := m.store.Load(ctx, id)
			if err != nil {
				logging.Log(ctx).Layer("session").Session(id).Err(err).Warn("failed to load session, starting a new one")
				if err := m.store.Delete(ctx, id); err != nil {
					logging.Log(ctx).Layer("session").Session(id).Err(err).Warn("failed to discard unreadable session")
				}
			}
			data = loaded
		}
		if data == nil {
			id = uuid.NewString()
			data = &Data{}
			logging.Log(ctx).Layer("session").Session(id).Debug("session started")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     m.path,
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(NewContext(ctx, &Session{ID: id, Data: data})))
	})
}

// Save persists the request's session. It must run before the response
// is redirected or rendered.
func (m *Manager) Save(ctx context.Context) error {
	s := FromContext(ctx)
	if s == nil {
		return ErrNoSession
	}
	return m.store.Save(ctx, s.ID, s.Data)
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
