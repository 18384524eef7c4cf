package http

import (
	"log/slog"
	"net/http"

	"spendwise/internal/auth"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMe returns the identity behind the current session.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{
		Owner: session.Owner,
		Name:  session.Name,
		Email: session.Email,
	})
}

// handleCategories lists the category registry.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(core.Categories))
	for _, cat := range core.Categories {
		out = append(out, buildCategoryResponse(cat))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLogin starts the OAuth flow by redirecting to the provider.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}

	state := s.sessions.IssueState(w)
	http.Redirect(w, r, s.provider.AuthCodeURL(state), http.StatusFound)
}

// handleCallback completes the OAuth flow: state check, code exchange,
// session mint, then back to the app.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}

	if errStr := r.URL.Query().Get("error"); errStr != "" {
		slog.WarnContext(r.Context(), "OAuth provider returned error", "error", errStr)
		writeError(w, http.StatusBadRequest, "authorization was denied")
		return
	}

	state := r.URL.Query().Get("state")
	if !s.sessions.VerifyState(w, r, state) {
		slog.WarnContext(r.Context(), "OAuth state mismatch")
		writeError(w, http.StatusBadRequest, "invalid state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	identity, err := s.provider.Exchange(r.Context(), code)
	if err != nil {
		slog.ErrorContext(r.Context(), "OAuth exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "authentication failed")
		return
	}

	if _, err := s.sessions.Create(r.Context(), w, identity); err != nil {
		s.structured.LogError(r.Context(), "Failed to create session", err,
			applog.ComponentAuth, applog.OpLogin,
			applog.LogFields{applog.FieldOwner: identity.Subject})
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "User logged in",
		applog.FieldOwner, identity.Subject,
		applog.FieldOperation, applog.OpLogin)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout revokes the session. Logging out twice is fine.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(w, r); err != nil {
		s.structured.LogError(r.Context(), "Failed to destroy session", err,
			applog.ComponentAuth, applog.OpLogout, applog.NewFields())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
