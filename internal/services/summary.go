package services

import (
	"time"

	"sandoog/internal/models"
)

type BudgetSummary struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Spent  float64 `json:"spent"`
}

type SavingsSummary struct {
	Name  string  `json:"name"`
	Goal  float64 `json:"goal"`
	Saved float64 `json:"saved"`
}

type TransactionSummary struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
}

// Summary is the dashboard view of one user's money.
type Summary struct {
	TotalIncome         float64              `json:"total_income"`
	TotalExpenses       float64              `json:"total_expenses"`
	TotalBalance        float64              `json:"total_balance"`
	Budgets             []BudgetSummary      `json:"budgets"`
	Savings             []SavingsSummary     `json:"savings"`
	IncomeTransactions  []TransactionSummary `json:"incomeTransactions"`
	ExpenseTransactions []TransactionSummary `json:"expenseTransactions"`
}

// Summarize totals income and expenses and projects the records into the
// summary shape. Input order is kept.
func Summarize(budgets []models.Budget, savings []models.Savings, txs []models.Transaction) Summary {
	s := Summary{
		Budgets:             make([]BudgetSummary, 0, len(budgets)),
		Savings:             make([]SavingsSummary, 0, len(savings)),
		IncomeTransactions:  []TransactionSummary{},
		ExpenseTransactions: []TransactionSummary{},
	}

	for _, b := range budgets {
		s.Budgets = append(s.Budgets, BudgetSummary{Name: b.Name, Amount: b.Amount, Spent: b.Spent})
	}
	for _, sv := range savings {
		s.Savings = append(s.Savings, SavingsSummary{Name: sv.Name, Goal: sv.Goal, Saved: sv.Saved})
	}
	for _, t := range txs {
		row := TransactionSummary{Amount: t.Amount, Date: t.Date.UTC(), Type: t.Type}
		switch t.Type {
		case models.TransactionIncome:
			s.TotalIncome += t.Amount
			s.IncomeTransactions = append(s.IncomeTransactions, row)
		case models.TransactionExpense:
			s.TotalExpenses += t.Amount
			s.ExpenseTransactions = append(s.ExpenseTransactions, row)
		}
	}
	s.TotalBalance = s.TotalIncome - s.TotalExpenses
	return s
}
