// Package memory provides an in-memory Store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	items    []core.Expense
	settings map[string]core.Settings
	sessions map[string]storage.Session

	// FailReads simulates an unavailable backing store for read paths.
	FailReads error
}

func New() *Store {
	return &Store{
		settings: make(map[string]core.Settings),
		sessions: make(map[string]storage.Session),
	}
}

// ListExpenses implements storage.Store, newest-date-first.
func (s *Store) ListExpenses(_ context.Context, owner string, f storage.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return nil, s.FailReads
	}

	var out []core.Expense
	for _, e := range s.items {
		if e.Owner != owner {
			continue
		}
		if f.Category != "" && e.CategoryKey != f.Category {
			continue
		}
		if !f.StartDate.IsZero() && e.Date.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && e.Date.After(f.EndDate) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// CreateExpense implements storage.Store.
func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	s.items = append(s.items, e)
	return e, nil
}

// UpdateExpense implements storage.Store.
func (s *Store) UpdateExpense(_ context.Context, owner, id string, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Owner == owner {
			s.items[i].ItemName = e.ItemName
			s.items[i].Amount = e.Amount
			s.items[i].CategoryKey = e.CategoryKey
			s.items[i].Date = e.Date
			s.items[i].Notes = e.Notes
			return s.items[i], nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

// DeleteExpense implements storage.Store.
func (s *Store) DeleteExpense(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Owner == owner {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// GetSettings implements storage.Store.
func (s *Store) GetSettings(_ context.Context, owner string) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return core.Settings{}, s.FailReads
	}
	if st, ok := s.settings[owner]; ok {
		return st, nil
	}
	return core.Settings{Owner: owner}, nil
}

// UpsertBudget implements storage.Store.
func (s *Store) UpsertBudget(_ context.Context, owner string, budget core.Money) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := core.Settings{Owner: owner, MonthlyBudget: budget, UpdatedAt: time.Now().UTC()}
	s.settings[owner] = st
	return st, nil
}

func (s *Store) Close() error { return nil }

// CreateSession implements storage.SessionStore.
func (s *Store) CreateSession(_ context.Context, sess storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

// GetSession implements storage.SessionStore.
func (s *Store) GetSession(_ context.Context, token string) (storage.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return storage.Session{}, core.ErrNotFound
	}
	return sess, nil
}

// DeleteSession implements storage.SessionStore.
func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// PurgeExpiredSessions implements storage.SessionStore.
func (s *Store) PurgeExpiredSessions(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

var _ storage.Store = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
