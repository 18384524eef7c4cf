package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testExpense(owner, cat string, cents int64, date string) core.Expense {
	d, _ := core.ParseDate(date)
	return core.Expense{
		Owner:       owner,
		ItemName:    "test item",
		Amount:      core.Money{Cents: cents},
		CategoryKey: cat,
		Date:        d,
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateExpense(ctx, testExpense("alice", "food", 1250, "2024-03-02"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateExpense(ctx, testExpense("alice", "transport", 4000, "2024-03-15"))
	require.NoError(t, err)

	got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest date first.
	assert.Equal(t, "2024-03-15", got[0].Date.String())
	assert.Equal(t, "2024-03-02", got[1].Date.String())
}

func TestListExpensesFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, e := range []core.Expense{
		testExpense("alice", "food", 100, "2024-02-28"),
		testExpense("alice", "food", 200, "2024-03-05"),
		testExpense("alice", "bills", 300, "2024-03-20"),
		testExpense("alice", "food", 400, "2024-04-01"),
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	t.Run("by category", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{Category: "food"})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("by inclusive date range", func(t *testing.T) {
		start, _ := core.ParseDate("2024-03-05")
		end, _ := core.ParseDate("2024-03-20")
		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{StartDate: start, EndDate: end})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2024-03-20", got[0].Date.String())
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match is empty not error", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{Category: "travel"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestOwnerIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	aliceExp, err := repo.CreateExpense(ctx, testExpense("alice", "food", 500, "2024-03-01"))
	require.NoError(t, err)

	t.Run("list never crosses owners", func(t *testing.T) {
		got, err := repo.ListExpenses(ctx, "bob", ExpenseFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update of foreign record is not-found", func(t *testing.T) {
		upd := testExpense("bob", "bills", 999, "2024-03-02")
		_, err := repo.UpdateExpense(ctx, "bob", aliceExp.ID, upd)
		assert.ErrorIs(t, err, core.ErrNotFound)

		// Alice's record is untouched.
		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(500), got[0].Amount.Cents)
		assert.Equal(t, "food", got[0].CategoryKey)
	})

	t.Run("delete of foreign record is not-found", func(t *testing.T) {
		err := repo.DeleteExpense(ctx, "bob", aliceExp.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)

		got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateExpense(ctx, testExpense("alice", "food", 500, "2024-03-01"))
	require.NoError(t, err)

	upd := testExpense("alice", "groceries", 750, "2024-03-03")
	upd.ItemName = "weekly shop"
	upd.Notes = "market"
	got, err := repo.UpdateExpense(ctx, "alice", created.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "weekly shop", got.ItemName)
	assert.Equal(t, int64(750), got.Amount.Cents)
	assert.Equal(t, "groceries", got.CategoryKey)
	assert.Equal(t, "2024-03-03", got.Date.String())
	assert.Equal(t, "market", got.Notes)

	_, err = repo.UpdateExpense(ctx, "alice", "no-such-id", upd)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateExpense(ctx, testExpense("alice", "food", 500, "2024-03-01"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteExpense(ctx, "alice", created.ID))

	got, err := repo.ListExpenses(ctx, "alice", ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, repo.DeleteExpense(ctx, "alice", created.ID), core.ErrNotFound)
}

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("default when unset", func(t *testing.T) {
		got, err := repo.GetSettings(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner)
		assert.Zero(t, got.MonthlyBudget.Cents)
	})

	t.Run("upsert creates then replaces", func(t *testing.T) {
		first, err := repo.UpsertBudget(ctx, "alice", core.Money{Cents: 150000})
		require.NoError(t, err)
		assert.Equal(t, int64(150000), first.MonthlyBudget.Cents)

		second, err := repo.UpsertBudget(ctx, "alice", core.Money{Cents: 200000})
		require.NoError(t, err)
		assert.Equal(t, int64(200000), second.MonthlyBudget.Cents)

		got, err := repo.GetSettings(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(200000), got.MonthlyBudget.Cents)
		assert.False(t, got.UpdatedAt.IsZero())
	})
}

func TestSessions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sess := Session{
		Token:     "tok-1",
		Owner:     "alice",
		Name:      "Alice",
		Email:     "alice@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.CreateSession(ctx, sess))

	got, err := repo.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = repo.GetSession(ctx, "unknown")
	assert.ErrorIs(t, err, core.ErrNotFound)

	t.Run("expired token is not-found and purgeable", func(t *testing.T) {
		old := Session{Token: "tok-old", Owner: "alice", ExpiresAt: time.Now().Add(-time.Minute)}
		require.NoError(t, repo.CreateSession(ctx, old))

		_, err := repo.GetSession(ctx, "tok-old")
		assert.ErrorIs(t, err, core.ErrNotFound)

		n, err := repo.PurgeExpiredSessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		require.NoError(t, repo.DeleteSession(ctx, "tok-1"))
		require.NoError(t, repo.DeleteSession(ctx, "tok-1"))
		_, err := repo.GetSession(ctx, "tok-1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
