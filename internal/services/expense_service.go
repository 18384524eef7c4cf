package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"
)

// AlertPublisher is the slice of the message bus the service needs. Nil-able
// so the app runs without a broker.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
	Close() error
}

// ExpenseService orchestrates expense writes: validation, persistence, and
// the budget-alert publication that may follow a create.
type ExpenseService struct {
	storage storage.Store
	alerts  AlertPublisher
	log     *applog.StructuredLogger
}

func NewExpenseService(store storage.Store, alerts AlertPublisher) *ExpenseService {
	return &ExpenseService{
		storage: store,
		alerts:  alerts,
		log:     applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExpense)),
	}
}

// ListExpenses returns the owner's expenses, optionally filtered.
func (s *ExpenseService) ListExpenses(ctx context.Context, owner string, f storage.ExpenseFilter) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, owner, f)
}

// CreateExpense validates and saves an expense, then checks whether the save
// pushed the month's total past the owner's budget. The alert publish is best
// effort: a broker failure never fails the request.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.checkBudget(ctx, saved); err != nil {
		s.log.LogError(ctx, "Failed to publish budget alert", err,
			applog.ComponentExpense, applog.OpPublish,
			applog.NewFields().WithExpense(saved.Owner, saved.ItemName, saved.Amount.Cents, saved.CategoryKey))
		// Don't fail the request - expense is saved
	}

	return saved, nil
}

// UpdateExpense validates and replaces the owner's expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, owner, id string, e core.Expense) (core.Expense, error) {
	e.Owner = owner
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return s.storage.UpdateExpense(ctx, owner, id, e)
}

// DeleteExpense removes the owner's expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, owner, id string) error {
	return s.storage.DeleteExpense(ctx, owner, id)
}

// GetSettings returns the owner's settings, defaulting to a zero budget.
func (s *ExpenseService) GetSettings(ctx context.Context, owner string) (core.Settings, error) {
	return s.storage.GetSettings(ctx, owner)
}

// UpdateBudget validates and upserts the owner's monthly budget.
func (s *ExpenseService) UpdateBudget(ctx context.Context, owner string, budget core.Money) (core.Settings, error) {
	settings := core.Settings{Owner: owner, MonthlyBudget: budget}
	if err := settings.Validate(); err != nil {
		return core.Settings{}, err
	}
	return s.storage.UpsertBudget(ctx, owner, budget)
}

// checkBudget publishes an alert when this expense is the one that crossed
// the budget line for its calendar month. Months already over budget before
// the save stay quiet, so each crossing alerts once.
func (s *ExpenseService) checkBudget(ctx context.Context, e core.Expense) error {
	if s.alerts == nil {
		return nil
	}

	settings, err := s.storage.GetSettings(ctx, e.Owner)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if settings.MonthlyBudget.Cents <= 0 {
		return nil
	}

	first, last := core.CurrentMonthRange(e.Date.Time)
	monthExpenses, err := s.storage.ListExpenses(ctx, e.Owner, storage.ExpenseFilter{
		StartDate: first,
		EndDate:   last,
	})
	if err != nil {
		return fmt.Errorf("read month expenses: %w", err)
	}

	total := core.TotalAmount(monthExpenses)
	budget := settings.MonthlyBudget
	crossed := total.Cents > budget.Cents && total.Cents-e.Amount.Cents <= budget.Cents
	if !crossed {
		return nil
	}

	msg := amqp.NewBudgetAlertMessage(e.Owner, e.Date.Year(), e.Date.Month(), total.Cents, budget.Cents)
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}

	slog.InfoContext(ctx, "Budget alert published",
		"owner", e.Owner,
		"year", e.Date.Year(),
		"month", e.Date.Month(),
		"overspend_cents", msg.OverspendCents())
	return nil
}

// Close closes both storage and the alert bus.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.alerts != nil {
		if err := s.alerts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
