package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-02")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 2 {
		t.Fatalf("unexpected date %v", d)
	}
	if got := d.String(); got != "2024-03-02" {
		t.Fatalf("round trip mismatch: %q", got)
	}

	for _, bad := range []string{"", "2024-13-01", "02/03/2024", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Owner:       "user-1",
		ItemName:    "coffee",
		Amount:      Money{Cents: 350},
		CategoryKey: "food",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// One cent is the smallest accepted amount.
	cheap := good
	cheap.Amount = Money{Cents: 1}
	if err := cheap.Validate(); err != nil {
		t.Fatalf("expected 0.01 accepted, got %v", err)
	}

	// Unknown categories pass validation; they degrade at read time.
	odd := good
	odd.CategoryKey = "crypto"
	if err := odd.Validate(); err != nil {
		t.Fatalf("unknown category should validate, got %v", err)
	}

	// A missing category is a validation failure, not a degrade case.
	uncategorized := good
	uncategorized.CategoryKey = "  "
	if err := uncategorized.Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("blank category should fail with ErrEmptyCategory, got %v", err)
	}

	bads := []Expense{
		{Owner: "", ItemName: "a", Amount: Money{Cents: 1}, CategoryKey: "food", Date: NewDate(2025, 1, 1)},
		{Owner: "u", ItemName: "", Amount: Money{Cents: 1}, CategoryKey: "food", Date: NewDate(2025, 1, 1)},
		{Owner: "u", ItemName: "a", Amount: Money{Cents: 0}, CategoryKey: "food", Date: NewDate(2025, 1, 1)},
		{Owner: "u", ItemName: "a", Amount: Money{Cents: -5}, CategoryKey: "food", Date: NewDate(2025, 1, 1)},
		{Owner: "u", ItemName: "a", Amount: Money{Cents: 1}, CategoryKey: "food", Date: Date{}},
		{Owner: "u", ItemName: "a", Amount: Money{Cents: 1}, CategoryKey: "", Date: NewDate(2025, 1, 1)},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := (Settings{Owner: "u", MonthlyBudget: Money{Cents: 0}}).Validate(); err != nil {
		t.Fatalf("zero budget means unset, got %v", err)
	}
	if err := (Settings{Owner: "u", MonthlyBudget: Money{Cents: 150000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Settings{Owner: "u", MonthlyBudget: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatalf("expected error for negative budget")
	}
	if err := (Settings{Owner: "", MonthlyBudget: Money{Cents: 100}}).Validate(); err == nil {
		t.Fatalf("expected error for empty owner")
	}
}
