package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Store and SessionStore on a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListExpenses implements Store.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, owner string, f ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT id, owner, item_name, amount_cents, category, date, notes, created_at
		FROM expenses WHERE owner = ?`
	args := []any{owner}

	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if !f.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.EndDate.String())
	}
	query += " ORDER BY date DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense implements Store. The repository assigns the ID and the
// creation timestamp.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner, item_name, amount_cents, category, date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Owner, e.ItemName, e.Amount.Cents, e.CategoryKey, e.Date.String(),
		e.Notes, e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"owner", e.Owner,
		"item_name", e.ItemName,
		"amount_cents", e.Amount.Cents,
		"category", e.CategoryKey,
		"date", e.Date.String())

	return e, nil
}

// UpdateExpense implements Store. The WHERE clause carries both the id and
// the owner, so another user's record reports not-found instead of mutating.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, owner, id string, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET item_name = ?, amount_cents = ?, category = ?, date = ?, notes = ?
		 WHERE id = ? AND owner = ?`,
		e.ItemName, e.Amount.Cents, e.CategoryKey, e.Date.String(), e.Notes, id, owner)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense rows affected: %w", err)
	}
	if n == 0 {
		return core.Expense{}, core.ErrNotFound
	}

	return r.getExpense(ctx, owner, id)
}

// DeleteExpense implements Store with the same ownership scoping as updates.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "owner", owner)
	return nil
}

func (r *SQLiteRepository) getExpense(ctx context.Context, owner, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, item_name, amount_cents, category, date, notes, created_at
		 FROM expenses WHERE id = ? AND owner = ?`, id, owner)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// GetSettings implements Store. A missing row is the zero-budget default,
// never an error.
func (r *SQLiteRepository) GetSettings(ctx context.Context, owner string) (core.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT owner, monthly_budget_cents, updated_at FROM user_settings WHERE owner = ?`, owner)

	var (
		s         core.Settings
		updatedAt string
	)
	err := row.Scan(&s.Owner, &s.MonthlyBudget.Cents, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{Owner: owner}, nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return s, nil
}

// UpsertBudget implements Store with a single-row upsert keyed on owner.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, owner string, budget core.Money) (core.Settings, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_settings (owner, monthly_budget_cents, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET
		   monthly_budget_cents = excluded.monthly_budget_cents,
		   updated_at = excluded.updated_at`,
		owner, budget.Cents, now.Format(time.RFC3339))
	if err != nil {
		return core.Settings{}, fmt.Errorf("upsert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved", "owner", owner, "budget_cents", budget.Cents)

	return core.Settings{Owner: owner, MonthlyBudget: budget, UpdatedAt: now}, nil
}

// CreateSession implements SessionStore.
func (r *SQLiteRepository) CreateSession(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, owner, name, email, expires_at) VALUES (?, ?, ?, ?, ?)`,
		s.Token, s.Owner, s.Name, s.Email, s.ExpiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession implements SessionStore. Expired tokens report not-found.
func (r *SQLiteRepository) GetSession(ctx context.Context, token string) (Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token, owner, name, email, expires_at FROM sessions WHERE token = ?`, token)

	var (
		s         Session
		expiresAt string
	)
	err := row.Scan(&s.Token, &s.Owner, &s.Name, &s.Email, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, core.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	s.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("parse session expiry: %w", err)
	}
	if time.Now().After(s.ExpiresAt) {
		return Session{}, core.ErrNotFound
	}
	return s, nil
}

// DeleteSession implements SessionStore. Deleting an unknown token is not an
// error; logout is idempotent.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions implements SessionStore.
func (r *SQLiteRepository) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		date      string
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.Owner, &e.ItemName, &e.Amount.Cents, &e.CategoryKey,
		&date, &e.Notes, &createdAt); err != nil {
		return core.Expense{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	e.Date = d
	// created_at is informational; tolerate legacy formats.
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}

var _ Store = (*SQLiteRepository)(nil)
var _ SessionStore = (*SQLiteRepository)(nil)
