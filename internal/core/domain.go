package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date without a time component, kept at UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is one logged spending transaction, always owned by a single user.
	Expense struct {
		ID          string
		Owner       string
		ItemName    string
		Amount      Money
		CategoryKey string // resolved against the category registry at read time
		Date        Date
		Notes       string
		CreatedAt   time.Time
	}

	// Settings holds the per-user configuration. One row per owner,
	// created lazily on the first budget save.
	Settings struct {
		Owner         string
		MonthlyBudget Money // zero means "not set"
		UpdatedAt     time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidBudget   = errors.New("invalid budget")
	ErrEmptyItemName   = errors.New("empty item name")
	ErrItemNameTooLong = errors.New("item name too long (max 200 characters)")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyOwner      = errors.New("empty owner")
	ErrNotFound        = errors.New("not found")
)

// DateLayout is the wire format for dates (ISO calendar date).
const DateLayout = "2006-01-02"

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the ISO representation used in the API and storage.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(e.ItemName)) == 0 {
		return ErrEmptyItemName
	}
	if len(e.ItemName) > 200 {
		return ErrItemNameTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.CategoryKey) == "" {
		return ErrEmptyCategory
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	// An unknown CategoryKey is not rejected: readers degrade stored keys
	// to the registry fallback. Only a missing key fails validation.
	return nil
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.Owner) == "" {
		return ErrEmptyOwner
	}
	if s.MonthlyBudget.Cents < 0 {
		return ErrInvalidBudget
	}
	return nil
}
