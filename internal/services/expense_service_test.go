package services

import (
	"context"
	"errors"
	"testing"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/storage/memory"
)

type fakePublisher struct {
	published []*amqp.BudgetAlertMessage
	failWith  error
}

func (f *fakePublisher) PublishBudgetAlert(_ context.Context, msg *amqp.BudgetAlertMessage) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func expense(owner, item string, cents int64, date core.Date) core.Expense {
	return core.Expense{
		Owner:       owner,
		ItemName:    item,
		Amount:      core.Money{Cents: cents},
		CategoryKey: "food",
		Date:        date,
	}
}

func uncategorized(owner, item string, cents int64, date core.Date) core.Expense {
	e := expense(owner, item, cents, date)
	e.CategoryKey = ""
	return e
}

func TestCreateExpenseValidates(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	tests := []struct {
		name    string
		e       core.Expense
		wantErr error
	}{
		{"empty owner", expense("", "Coffee", 450, core.NewDate(2024, 4, 10)), core.ErrEmptyOwner},
		{"empty item", expense("alice@example.com", "  ", 450, core.NewDate(2024, 4, 10)), core.ErrEmptyItemName},
		{"zero amount", expense("alice@example.com", "Coffee", 0, core.NewDate(2024, 4, 10)), core.ErrInvalidAmount},
		{"zero date", expense("alice@example.com", "Coffee", 450, core.Date{}), core.ErrInvalidDate},
		{"missing category", uncategorized("alice@example.com", "Coffee", 450, core.NewDate(2024, 4, 10)), core.ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(context.Background(), tt.e)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateExpenseAssignsID(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	saved, err := svc.CreateExpense(context.Background(), expense("alice@example.com", "Coffee", 450, core.NewDate(2024, 4, 10)))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an assigned ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
}

func TestBudgetAlertOnCrossing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	// First expense stays under budget: no alert.
	if _, err := svc.CreateExpense(ctx, expense("alice@example.com", "Groceries", 6000, core.NewDate(2024, 4, 5))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no alert under budget, got %d", len(pub.published))
	}

	// Second expense crosses the line: one alert.
	if _, err := svc.CreateExpense(ctx, expense("alice@example.com", "Shoes", 5000, core.NewDate(2024, 4, 12))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one alert after crossing, got %d", len(pub.published))
	}

	msg := pub.published[0]
	if msg.Owner != "alice@example.com" || msg.Year != 2024 || msg.Month != 4 {
		t.Errorf("alert addressed wrong period: %+v", msg)
	}
	if msg.SpentCents != 11000 || msg.BudgetCents != 10000 {
		t.Errorf("alert amounts = %d/%d, want 11000/10000", msg.SpentCents, msg.BudgetCents)
	}

	// Third expense in an already-over month stays quiet.
	if _, err := svc.CreateExpense(ctx, expense("alice@example.com", "Lunch", 1500, core.NewDate(2024, 4, 20))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 1 {
		t.Errorf("expected no repeat alert, got %d", len(pub.published))
	}
}

func TestNoAlertWithoutBudget(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	if _, err := svc.CreateExpense(context.Background(), expense("alice@example.com", "Rent", 900000, core.NewDate(2024, 4, 1))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no alert when budget unset, got %d", len(pub.published))
	}
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &fakePublisher{failWith: errors.New("broker down")}
	svc := NewExpenseService(store, pub)

	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 100}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	saved, err := svc.CreateExpense(ctx, expense("alice@example.com", "Dinner", 5000, core.NewDate(2024, 4, 2)))
	if err != nil {
		t.Fatalf("CreateExpense should survive publish failure, got %v", err)
	}
	if saved.ID == "" {
		t.Error("expense should still be saved")
	}
}

func TestAlertScopedToExpenseMonth(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	if _, err := store.UpsertBudget(ctx, "alice@example.com", core.Money{Cents: 5000}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	// March is over budget; an April expense must not count March's spending.
	if _, err := svc.CreateExpense(ctx, expense("alice@example.com", "Flight", 20000, core.NewDate(2024, 3, 15))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected March alert, got %d", len(pub.published))
	}

	if _, err := svc.CreateExpense(ctx, expense("alice@example.com", "Coffee", 400, core.NewDate(2024, 4, 1))); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(pub.published) != 1 {
		t.Errorf("April under budget should not alert, got %d alerts", len(pub.published))
	}
}

func TestUpdateExpenseNotFound(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	_, err := svc.UpdateExpense(context.Background(), "alice@example.com", "missing",
		expense("alice@example.com", "Coffee", 450, core.NewDate(2024, 4, 10)))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBudgetRejectsNegative(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	_, err := svc.UpdateBudget(context.Background(), "alice@example.com", core.Money{Cents: -1})
	if !errors.Is(err, core.ErrInvalidBudget) {
		t.Errorf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestUpdateBudgetAllowsZero(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)

	settings, err := svc.UpdateBudget(context.Background(), "alice@example.com", core.Money{Cents: 0})
	if err != nil {
		t.Fatalf("UpdateBudget failed: %v", err)
	}
	if settings.MonthlyBudget.Cents != 0 {
		t.Errorf("MonthlyBudget = %d, want 0", settings.MonthlyBudget.Cents)
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := &ExpenseService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should not return error with nil components: %v", err)
	}
}
