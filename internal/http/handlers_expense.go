package http

import (
	"errors"
	"net/http"

	"spendwise/internal/auth"
	applog "spendwise/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	filter, err := parseListFilter(r)
	if err != nil {
		if errors.Is(err, errMalformedBody) {
			writeError(w, http.StatusBadRequest, "invalid query parameters")
			return
		}
		writeDomainError(w, err)
		return
	}

	expenses, err := s.expenses.ListExpenses(r.Context(), session.Owner, filter)
	if err != nil {
		s.structured.LogError(r.Context(), "List expenses failed", err,
			applog.ComponentHTTP, applog.OpList,
			applog.LogFields{applog.FieldOwner: session.Owner})
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildExpenseListResponse(expenses))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	expense, err := parseExpenseRequest(r, session.Owner)
	if err != nil {
		if errors.Is(err, errMalformedBody) {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		writeDomainError(w, err)
		return
	}

	saved, err := s.expenses.CreateExpense(r.Context(), expense)
	if err != nil {
		s.structured.LogError(r.Context(), "Create expense failed", err,
			applog.ComponentHTTP, applog.OpCreate,
			applog.LogFields{applog.FieldOwner: session.Owner})
		writeDomainError(w, err)
		return
	}

	s.invalidateDashboard(session.Owner)
	writeJSON(w, http.StatusCreated, buildExpenseResponse(saved))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())
	id := r.PathValue("id")

	expense, err := parseExpenseRequest(r, session.Owner)
	if err != nil {
		if errors.Is(err, errMalformedBody) {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		writeDomainError(w, err)
		return
	}

	updated, err := s.expenses.UpdateExpense(r.Context(), session.Owner, id, expense)
	if err != nil {
		s.structured.LogError(r.Context(), "Update expense failed", err,
			applog.ComponentHTTP, applog.OpUpdate,
			applog.LogFields{applog.FieldOwner: session.Owner, applog.FieldExpenseID: id})
		writeDomainError(w, err)
		return
	}

	s.invalidateDashboard(session.Owner)
	writeJSON(w, http.StatusOK, buildExpenseResponse(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.expenses.DeleteExpense(r.Context(), session.Owner, id); err != nil {
		s.structured.LogError(r.Context(), "Delete expense failed", err,
			applog.ComponentHTTP, applog.OpDelete,
			applog.LogFields{applog.FieldOwner: session.Owner, applog.FieldExpenseID: id})
		writeDomainError(w, err)
		return
	}

	s.invalidateDashboard(session.Owner)
	w.WriteHeader(http.StatusNoContent)
}
