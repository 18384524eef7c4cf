// This file shapes domain values into their JSON API representations.

package http

import (
	"time"

	"spendwise/internal/core"
)

type categoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type expenseResponse struct {
	ID        string           `json:"id"`
	ItemName  string           `json:"item_name"`
	Amount    float64          `json:"amount"`
	Category  categoryResponse `json:"category"`
	Date      string           `json:"date"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type settingsResponse struct {
	MonthlyBudget float64    `json:"monthly_budget"`
	BudgetSet     bool       `json:"budget_set"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type meResponse struct {
	Owner string `json:"owner"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// buildExpenseResponse resolves the category against the registry, so an
// unknown stored key comes back as the fallback category rather than leaking
// raw data.
func buildExpenseResponse(e core.Expense) expenseResponse {
	cat := core.ResolveCategory(e.CategoryKey)
	return expenseResponse{
		ID:        e.ID,
		ItemName:  e.ItemName,
		Amount:    e.Amount.Units(),
		Category:  buildCategoryResponse(cat),
		Date:      e.Date.String(),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func buildCategoryResponse(cat core.Category) categoryResponse {
	return categoryResponse{
		Key:   cat.Key,
		Label: cat.Label,
		Icon:  cat.Icon,
		Color: cat.Color,
	}
}

func buildExpenseListResponse(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, buildExpenseResponse(e))
	}
	return out
}

func buildSettingsResponse(s core.Settings) settingsResponse {
	resp := settingsResponse{
		MonthlyBudget: s.MonthlyBudget.Units(),
		BudgetSet:     s.MonthlyBudget.Cents > 0,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
