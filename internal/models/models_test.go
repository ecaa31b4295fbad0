package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sandoog/internal/apperr"
)

func TestBudgetValidate(t *testing.T) {
	tests := []struct {
		name    string
		budget  Budget
		wantErr string
	}{
		{"valid", Budget{Name: "Home", Amount: 500, Spent: 20}, ""},
		{"zero values", Budget{Name: "Home"}, ""},
		{"negative amount", Budget{Name: "Home", Amount: -1}, "Amount must be non-negative"},
		{"negative spent", Budget{Name: "Home", Amount: 1, Spent: -0.5}, "Spent amount must be non-negative"},
		{"amount checked first", Budget{Amount: -1, Spent: -1}, "Amount must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
			require.True(t, apperr.Is(err, apperr.KindValidationFailed))
		})
	}
}

func TestSavingsValidate(t *testing.T) {
	require.NoError(t, (&Savings{Goal: 1000, Saved: 10}).Validate())
	require.EqualError(t, (&Savings{Goal: -5}).Validate(), "Goal must be non-negative")
	require.EqualError(t, (&Savings{Goal: 5, Saved: -5}).Validate(), "Saved amount must be non-negative")
}

func TestTransactionValidate(t *testing.T) {
	require.NoError(t, (&Transaction{Amount: 10, Type: TransactionIncome}).Validate())
	require.NoError(t, (&Transaction{Amount: 0, Type: TransactionExpense}).Validate())
	require.EqualError(t, (&Transaction{Amount: -10, Type: TransactionIncome}).Validate(), "Amount must be non-negative")
	require.EqualError(t, (&Transaction{Amount: 10, Type: "refund"}).Validate(), "Type must be income or expense")
}

func TestUserIdleFor(t *testing.T) {
	last := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	u := User{LastActivity: last}

	zone := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 1, 1, 14, 16, 0, 0, zone)

	require.Equal(t, 16*time.Minute, u.IdleFor(now))
}

func TestBaseBeforeCreateAssignsID(t *testing.T) {
	b := &Base{}
	require.NoError(t, b.BeforeCreate(nil))
	require.Len(t, b.ID, 36)

	keep := &Base{ID: "fixed"}
	require.NoError(t, keep.BeforeCreate(nil))
	require.Equal(t, "fixed", keep.ID)
}
