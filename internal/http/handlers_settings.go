package http

import (
	"errors"
	"net/http"

	"spendwise/internal/auth"
	applog "spendwise/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	settings, err := s.expenses.GetSettings(r.Context(), session.Owner)
	if err != nil {
		s.structured.LogError(r.Context(), "Get settings failed", err,
			applog.ComponentHTTP, applog.OpRead,
			applog.LogFields{applog.FieldOwner: session.Owner})
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildSettingsResponse(settings))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	budget, err := parseBudgetRequest(r)
	if err != nil {
		if errors.Is(err, errMalformedBody) {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		writeDomainError(w, err)
		return
	}

	settings, err := s.expenses.UpdateBudget(r.Context(), session.Owner, budget)
	if err != nil {
		s.structured.LogError(r.Context(), "Update budget failed", err,
			applog.ComponentHTTP, applog.OpUpsert,
			applog.LogFields{applog.FieldOwner: session.Owner})
		writeDomainError(w, err)
		return
	}

	s.invalidateDashboard(session.Owner)
	writeJSON(w, http.StatusOK, buildSettingsResponse(settings))
}
