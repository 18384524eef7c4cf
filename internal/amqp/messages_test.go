package amqp

import (
	"testing"
	"time"
)

func TestBudgetAlertMessageRoundTrip(t *testing.T) {
	original := NewBudgetAlertMessage("alice@example.com", 2024, 4, 152050, 100000)

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	decoded, err := BudgetAlertMessageFromJSON(data)
	if err != nil {
		t.Fatalf("BudgetAlertMessageFromJSON failed: %v", err)
	}

	if decoded.Owner != original.Owner {
		t.Errorf("Owner = %q, want %q", decoded.Owner, original.Owner)
	}
	if decoded.Year != original.Year || decoded.Month != original.Month {
		t.Errorf("period = %d-%d, want %d-%d", decoded.Year, decoded.Month, original.Year, original.Month)
	}
	if decoded.SpentCents != original.SpentCents {
		t.Errorf("SpentCents = %d, want %d", decoded.SpentCents, original.SpentCents)
	}
	if decoded.BudgetCents != original.BudgetCents {
		t.Errorf("BudgetCents = %d, want %d", decoded.BudgetCents, original.BudgetCents)
	}
	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, original.Timestamp)
	}
}

func TestBudgetAlertMessageFromJSONInvalid(t *testing.T) {
	if _, err := BudgetAlertMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestOverspendCents(t *testing.T) {
	tests := []struct {
		name   string
		spent  int64
		budget int64
		want   int64
	}{
		{"over budget", 152050, 100000, 52050},
		{"exactly at budget", 100000, 100000, 0},
		{"just over", 100001, 100000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := BudgetAlertMessage{SpentCents: tt.spent, BudgetCents: tt.budget}
			if got := msg.OverspendCents(); got != tt.want {
				t.Errorf("OverspendCents() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewBudgetAlertMessageSetsTimestamp(t *testing.T) {
	before := time.Now()
	msg := NewBudgetAlertMessage("bob@example.com", 2024, 1, 50000, 40000)
	after := time.Now()

	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", msg.Timestamp, before, after)
	}
}
