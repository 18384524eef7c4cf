package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"
)

// AlertWorker consumes budget alert messages and turns them into
// notifications. Before notifying it re-reads the month's spending, so a
// stale message (the overspending expense was deleted meanwhile) is dropped
// instead of reported.
type AlertWorker struct {
	storage storage.Store
}

func NewAlertWorker(store storage.Store) *AlertWorker {
	return &AlertWorker{storage: store}
}

// HandleAlertMessage processes a single budget alert message from AMQP
func (w *AlertWorker) HandleAlertMessage(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldOperation, applog.OpConsume,
		applog.FieldOwner, msg.Owner,
		"year", msg.Year,
		"month", msg.Month)

	settings, err := w.storage.GetSettings(ctx, msg.Owner)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}
	if settings.MonthlyBudget.Cents <= 0 {
		slog.InfoContext(ctx, "Budget no longer set, dropping alert",
			"owner", msg.Owner)
		return nil
	}

	anchor := time.Date(msg.Year, time.Month(msg.Month), 1, 0, 0, 0, 0, time.UTC)
	first, last := core.CurrentMonthRange(anchor)
	expenses, err := w.storage.ListExpenses(ctx, msg.Owner, storage.ExpenseFilter{
		StartDate: first,
		EndDate:   last,
	})
	if err != nil {
		return fmt.Errorf("list month expenses: %w", err)
	}

	total := core.TotalAmount(expenses)
	if total.Cents <= settings.MonthlyBudget.Cents {
		slog.InfoContext(ctx, "Spending back under budget, dropping alert",
			"owner", msg.Owner,
			"spent_cents", total.Cents,
			"budget_cents", settings.MonthlyBudget.Cents)
		return nil
	}

	w.notify(ctx, msg.Owner, msg.Year, msg.Month, total, settings.MonthlyBudget)
	return nil
}

// notify emits the notification. Delivery is a structured log record for
// now; a mail or push integration would hang off this method.
func (w *AlertWorker) notify(ctx context.Context, owner string, year, month int, spent, budget core.Money) {
	over := core.Money{Cents: spent.Cents - budget.Cents}
	slog.WarnContext(ctx, "Monthly budget exceeded",
		"owner", owner,
		"year", year,
		"month", month,
		"spent", spent.Units(),
		"budget", budget.Units(),
		"over_budget", over.Units())
}
