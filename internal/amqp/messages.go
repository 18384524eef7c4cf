package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage signals that an owner's spending for a calendar month
// has crossed their configured monthly budget. It carries enough for a
// consumer to notify without another lookup, though workers re-read current
// totals before reporting.
type BudgetAlertMessage struct {
	Owner       string    `json:"owner"`
	Year        int       `json:"year"`
	Month       int       `json:"month"` // 1-12
	SpentCents  int64     `json:"spent_cents"`
	BudgetCents int64     `json:"budget_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage creates an alert for the given owner and month.
func NewBudgetAlertMessage(owner string, year, month int, spentCents, budgetCents int64) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Owner:       owner,
		Year:        year,
		Month:       month,
		SpentCents:  spentCents,
		BudgetCents: budgetCents,
		Timestamp:   time.Now(),
	}
}

// OverspendCents returns how far past the budget the owner is.
func (m *BudgetAlertMessage) OverspendCents() int64 {
	return m.SpentCents - m.BudgetCents
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
