package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/storage"
)

const (
	// SessionCookieName is the browser cookie carrying the session token.
	SessionCookieName = "spendwise_session"

	// StateCookieName carries the OAuth state nonce between the login
	// redirect and the callback.
	StateCookieName = "spendwise_oauth_state"

	stateTTL = 10 * time.Minute
)

// SessionManager mints, resolves, and revokes browser sessions backed by a
// SessionStore.
type SessionManager struct {
	store  storage.SessionStore
	ttl    time.Duration
	secure bool
}

// NewSessionManager creates a manager. secure controls the cookie Secure
// flag and should be true whenever the public app URL is https.
func NewSessionManager(store storage.SessionStore, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		store:  store,
		ttl:    ttl,
		secure: secure,
	}
}

// Create mints a session for the identity and sets the session cookie.
func (m *SessionManager) Create(ctx context.Context, w http.ResponseWriter, id Identity) (storage.Session, error) {
	s := storage.Session{
		Token:     uuid.NewString(),
		Owner:     id.Subject,
		Name:      id.Name,
		Email:     id.Email,
		ExpiresAt: time.Now().Add(m.ttl),
	}

	if err := m.store.CreateSession(ctx, s); err != nil {
		return storage.Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return s, nil
}

// Resolve returns the session behind the request's cookie. It returns
// core.ErrNotFound (via the store) when there is no cookie or the token is
// unknown or expired.
func (m *SessionManager) Resolve(r *http.Request) (storage.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return storage.Session{}, err
	}
	return m.store.GetSession(r.Context(), cookie.Value)
}

// Destroy revokes the request's session and clears the cookie. Destroying
// an absent session is not an error.
func (m *SessionManager) Destroy(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		if err := m.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// IssueState sets a short-lived state cookie and returns the nonce.
func (m *SessionManager) IssueState(w http.ResponseWriter) string {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth",
		Expires:  time.Now().Add(stateTTL),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

// VerifyState checks the callback's state parameter against the cookie and
// clears the cookie either way.
func (m *SessionManager) VerifyState(w http.ResponseWriter, r *http.Request, state string) bool {
	cookie, err := r.Cookie(StateCookieName)

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return err == nil && state != "" && cookie.Value == state
}
