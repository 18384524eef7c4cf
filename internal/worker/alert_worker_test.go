package worker

import (
	"context"
	"errors"
	"testing"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage/memory"
)

func seedExpense(t *testing.T, store *memory.Store, owner string, cents int64, date core.Date) {
	t.Helper()
	_, err := store.CreateExpense(context.Background(), core.Expense{
		Owner:       owner,
		ItemName:    "seeded",
		Amount:      core.Money{Cents: cents},
		CategoryKey: "other",
		Date:        date,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
}

func TestHandleAlertMessageStillOverBudget(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	seedExpense(t, store, "alice@example.com", 15000, core.NewDate(2024, 4, 10))

	w := NewAlertWorker(store)
	msg := amqp.NewBudgetAlertMessage("alice@example.com", 2024, 4, 15000, 10000)

	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("HandleAlertMessage failed: %v", err)
	}
}

func TestHandleAlertMessageSpendingDroppedBack(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	// Only 50 remains in the month; the alert is stale.
	seedExpense(t, store, "alice@example.com", 5000, core.NewDate(2024, 4, 10))

	w := NewAlertWorker(store)
	msg := amqp.NewBudgetAlertMessage("alice@example.com", 2024, 4, 15000, 10000)

	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("stale alert should be dropped without error, got %v", err)
	}
}

func TestHandleAlertMessageBudgetUnset(t *testing.T) {
	store := memory.New()
	seedExpense(t, store, "alice@example.com", 99999, core.NewDate(2024, 4, 10))

	w := NewAlertWorker(store)
	msg := amqp.NewBudgetAlertMessage("alice@example.com", 2024, 4, 99999, 10000)

	if err := w.HandleAlertMessage(context.Background(), msg); err != nil {
		t.Fatalf("alert without budget should be dropped without error, got %v", err)
	}
}

func TestHandleAlertMessageStorageError(t *testing.T) {
	store := memory.New()
	store.FailReads = errors.New("storage down")

	w := NewAlertWorker(store)
	msg := amqp.NewBudgetAlertMessage("alice@example.com", 2024, 4, 15000, 10000)

	if err := w.HandleAlertMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
}

func TestHandleAlertMessageScopesToMonth(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	// Overspend lives in March; an April alert re-check must not see it.
	seedExpense(t, store, "alice@example.com", 50000, core.NewDate(2024, 3, 10))

	w := NewAlertWorker(store)
	msg := amqp.NewBudgetAlertMessage("alice@example.com", 2024, 4, 50000, 10000)

	if err := w.HandleAlertMessage(ctx, msg); err != nil {
		t.Fatalf("HandleAlertMessage failed: %v", err)
	}
}
