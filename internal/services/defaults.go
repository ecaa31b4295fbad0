package services

import (
	"encoding/json"

	"sandoog/internal/models"
)

// Starter records every new account is seeded with.
var (
	defaultBudgets = []struct {
		Name   string
		Amount float64
	}{
		{"Home stuff", 500},
		{"Transportation", 400},
		{"Entertainment", 200},
	}

	defaultSavings = []struct {
		Name string
		Goal float64
	}{
		{"Emergency", 2000},
		{"Investments", 3000},
		{"Travel", 1000},
	}
)

// DefaultBudgets returns the starter budgets for userID.
func DefaultBudgets(userID string) []models.Budget {
	out := make([]models.Budget, 0, len(defaultBudgets))
	for _, d := range defaultBudgets {
		out = append(out, models.Budget{
			Name:     d.Name,
			Amount:   d.Amount,
			Expenses: []json.RawMessage{},
			UserID:   userID,
		})
	}
	return out
}

// DefaultSavings returns the starter savings goals for userID.
func DefaultSavings(userID string) []models.Savings {
	out := make([]models.Savings, 0, len(defaultSavings))
	for _, d := range defaultSavings {
		out = append(out, models.Savings{
			Name:          d.Name,
			Goal:          d.Goal,
			Contributions: []json.RawMessage{},
			UserID:        userID,
		})
	}
	return out
}
