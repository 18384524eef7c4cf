package http

import (
	"log/slog"
	"net/http"
	"time"

	"spendwise/internal/auth"
)

// handleDashboard serves the aggregated spending view. The default window
// is cached per owner; an explicit months override bypasses the cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	months, err := parseMonths(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid months parameter")
		return
	}

	if months == 0 {
		if dash, found := s.dashCache.Get(session.Owner); found {
			slog.DebugContext(r.Context(), "Dashboard cache hit", "owner", session.Owner)
			writeJSON(w, http.StatusOK, dash)
			return
		}
	}

	dash := s.dashboards.Build(r.Context(), session.Owner, time.Now().UTC(), months)

	if months == 0 {
		s.dashCache.Set(session.Owner, dash)
	}
	writeJSON(w, http.StatusOK, dash)
}
