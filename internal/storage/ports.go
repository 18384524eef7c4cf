package storage

import (
	"context"
	"time"

	"spendwise/internal/core"
)

// ExpenseFilter narrows a ListExpenses call. Zero-value fields impose no
// constraint; Start/End bounds are inclusive.
type ExpenseFilter struct {
	Category  string
	StartDate core.Date
	EndDate   core.Date
	Limit     int
}

// Store is the record-access boundary: a row-oriented store with per-owner
// filtering. Every call takes the authenticated owner explicitly so the
// ownership scoping is visible at the call site.
type Store interface {
	// ListExpenses returns the owner's expenses newest-date-first. An empty
	// result is not an error.
	ListExpenses(ctx context.Context, owner string, f ExpenseFilter) ([]core.Expense, error)

	// CreateExpense persists a validated expense, assigning its ID and
	// creation timestamp.
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)

	// UpdateExpense replaces the mutable fields of the owner's expense.
	// Returns core.ErrNotFound when id does not exist or belongs to another
	// owner; it never silently no-ops.
	UpdateExpense(ctx context.Context, owner, id string, e core.Expense) (core.Expense, error)

	// DeleteExpense removes the owner's expense, with the same not-found
	// semantics as UpdateExpense.
	DeleteExpense(ctx context.Context, owner, id string) error

	// GetSettings returns the owner's settings, or a zero-budget default
	// when none exist yet.
	GetSettings(ctx context.Context, owner string) (core.Settings, error)

	// UpsertBudget creates or replaces the owner's single settings row.
	UpsertBudget(ctx context.Context, owner string, budget core.Money) (core.Settings, error)

	Close() error
}

// Session is an authenticated browser session minted after the OAuth
// callback. The identity fields are whatever the provider shared.
type Session struct {
	Token     string
	Owner     string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// SessionStore persists sessions across restarts.
type SessionStore interface {
	CreateSession(ctx context.Context, s Session) error
	// GetSession returns core.ErrNotFound for unknown or expired tokens.
	GetSession(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
