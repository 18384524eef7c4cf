// This file implements utilities for parsing and validating HTTP request
// data: JSON payloads for expense and budget writes, and query parameters
// for list filtering.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

var errMalformedBody = errors.New("malformed request body")

// expensePayload is the wire shape of an expense write. Amount is a
// RawMessage so clients may send either a JSON number or a decimal string;
// both parse through the same cents conversion.
type expensePayload struct {
	ItemName string          `json:"item_name"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Notes    string          `json:"notes"`
}

type budgetPayload struct {
	MonthlyBudget json.RawMessage `json:"monthly_budget"`
}

// parseExpenseRequest decodes and converts the request body into a core
// expense for the given owner. Returned errors are either errMalformedBody
// or one of the core validation sentinels.
func parseExpenseRequest(r *http.Request, owner string) (core.Expense, error) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return core.Expense{}, errMalformedBody
	}

	cents, err := core.ParseDecimalToCents(rawString(payload.Amount))
	if err != nil {
		return core.Expense{}, err
	}

	date, err := core.ParseDate(payload.Date)
	if err != nil {
		return core.Expense{}, err
	}

	return core.Expense{
		Owner:       owner,
		ItemName:    sanitizeInput(payload.ItemName),
		Amount:      core.Money{Cents: cents},
		CategoryKey: sanitizeInput(payload.Category),
		Date:        date,
		Notes:       sanitizeInput(payload.Notes),
	}, nil
}

// parseBudgetRequest decodes a budget update. Zero clears the budget.
func parseBudgetRequest(r *http.Request) (core.Money, error) {
	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return core.Money{}, errMalformedBody
	}

	cents, err := core.ParseBudgetToCents(rawString(payload.MonthlyBudget))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// rawString renders a RawMessage amount field as a plain decimal string.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// parseListFilter extracts the optional list constraints from the query
// string. Bad values are rejected rather than ignored so typos don't return
// unfiltered data.
func parseListFilter(r *http.Request) (storage.ExpenseFilter, error) {
	var f storage.ExpenseFilter
	q := r.URL.Query()

	f.Category = sanitizeInput(q.Get("category"))

	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return storage.ExpenseFilter{}, err
		}
		f.StartDate = d
	}
	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return storage.ExpenseFilter{}, err
		}
		f.EndDate = d
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return storage.ExpenseFilter{}, errMalformedBody
		}
		f.Limit = n
	}

	return f, nil
}

// parseMonths extracts the trend window override. Zero means "use the
// configured default".
func parseMonths(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 36 {
		return 0, errMalformedBody
	}
	return n, nil
}
