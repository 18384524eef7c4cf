package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

// Dashboard is the aggregated spending view for one owner: current-month
// totals against the budget, the category distribution, the trailing monthly
// trend, and the per-day breakdown of the current month.
type Dashboard struct {
	TotalSpent    float64              `json:"total_spent"`
	MonthlyBudget float64              `json:"monthly_budget"`
	Remaining     float64              `json:"remaining"`
	BudgetSet     bool                 `json:"budget_set"`
	Categories    []core.CategorySpend `json:"categories"`
	MonthlyTrend  []core.MonthSpend    `json:"monthly_trend"`
	DailySpending []core.DaySpend      `json:"daily_spending"`
}

// DashboardService assembles the dashboard with concurrent reads. Each read
// degrades to its empty value on storage failure, so a flaky store yields a
// sparse dashboard rather than an error page.
type DashboardService struct {
	storage storage.Store
	months  int
}

func NewDashboardService(store storage.Store, trendMonths int) *DashboardService {
	if trendMonths <= 0 {
		trendMonths = core.DefaultTrendMonths
	}
	return &DashboardService{
		storage: store,
		months:  trendMonths,
	}
}

// Build assembles the owner's dashboard as of now. months overrides the
// configured trend window when positive.
func (d *DashboardService) Build(ctx context.Context, owner string, now time.Time, months int) Dashboard {
	if months <= 0 {
		months = d.months
	}

	var (
		monthExpenses []core.Expense
		trendExpenses []core.Expense
		settings      core.Settings
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		first, last := core.CurrentMonthRange(now)
		expenses, err := d.storage.ListExpenses(gctx, owner, storage.ExpenseFilter{
			StartDate: first,
			EndDate:   last,
		})
		if err != nil {
			slog.ErrorContext(gctx, "Failed to read current month expenses",
				"owner", owner, "error", err)
			return nil
		}
		monthExpenses = expenses
		return nil
	})

	g.Go(func() error {
		first, last := core.MonthWindow(now, months)
		expenses, err := d.storage.ListExpenses(gctx, owner, storage.ExpenseFilter{
			StartDate: first,
			EndDate:   last,
		})
		if err != nil {
			slog.ErrorContext(gctx, "Failed to read trend expenses",
				"owner", owner, "error", err)
			return nil
		}
		trendExpenses = expenses
		return nil
	})

	g.Go(func() error {
		s, err := d.storage.GetSettings(gctx, owner)
		if err != nil {
			slog.ErrorContext(gctx, "Failed to read settings",
				"owner", owner, "error", err)
			return nil
		}
		settings = s
		return nil
	})

	// Goroutines swallow their errors, so Wait cannot fail.
	_ = g.Wait()

	total := core.TotalAmount(monthExpenses)
	budget := settings.MonthlyBudget

	dash := Dashboard{
		TotalSpent:    total.Units(),
		MonthlyBudget: budget.Units(),
		BudgetSet:     budget.Cents > 0,
		Categories:    core.SpendingByCategory(monthExpenses),
		MonthlyTrend:  core.MonthlySpending(trendExpenses, now, months),
		DailySpending: core.DailySpending(monthExpenses),
	}
	if dash.BudgetSet {
		dash.Remaining = core.Money{Cents: budget.Cents - total.Cents}.Units()
	}
	return dash
}
