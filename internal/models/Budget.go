package models

import (
	"encoding/json"

	"sandoog/internal/apperr"
)

// Budget is a spending envelope owned by a user.
type Budget struct {
	Base
	Name     string            `gorm:"size:128;not null" json:"name"`
	Amount   float64           `gorm:"not null" json:"amount"`
	Spent    float64           `gorm:"not null;default:0" json:"spent"`
	Expenses []json.RawMessage `gorm:"type:text;serializer:json" json:"expenses"`
	UserID   string            `gorm:"size:60;not null;index" json:"user_id"`
}

func (b *Budget) Validate() error {
	if b.Amount < 0 {
		return apperr.ValidationFailed("Amount must be non-negative")
	}
	if b.Spent < 0 {
		return apperr.ValidationFailed("Spent amount must be non-negative")
	}
	return nil
}

func (b *Budget) OwnerID() string { return b.UserID }
