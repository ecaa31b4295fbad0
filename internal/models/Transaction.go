package models

import (
	"time"

	"gorm.io/gorm"

	"sandoog/internal/apperr"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	Base
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:128;not null" json:"description"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Date        time.Time `gorm:"not null" json:"date"`
	UserID      string    `gorm:"size:60;not null;index" json:"user_id"`
}

func (t *Transaction) Validate() error {
	if t.Amount < 0 {
		return apperr.ValidationFailed("Amount must be non-negative")
	}
	if t.Type != TransactionIncome && t.Type != TransactionExpense {
		return apperr.ValidationFailed("Type must be income or expense")
	}
	return nil
}

func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Date = t.Date.UTC()
	return nil
}

func (t *Transaction) AfterFind(tx *gorm.DB) error {
	t.Date = t.Date.UTC()
	t.Base.normalize()
	return nil
}

func (t *Transaction) OwnerID() string { return t.UserID }
