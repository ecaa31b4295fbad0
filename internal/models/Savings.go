package models

import (
	"encoding/json"

	"sandoog/internal/apperr"
)

// Savings is a savings goal and the amount put aside for it so far.
type Savings struct {
	Base
	Name          string            `gorm:"size:128;not null" json:"name"`
	Goal          float64           `gorm:"not null" json:"goal"`
	Saved         float64           `gorm:"not null;default:0" json:"saved"`
	Contributions []json.RawMessage `gorm:"type:text;serializer:json" json:"contributions"`
	UserID        string            `gorm:"size:60;not null;index" json:"user_id"`
}

// TableName pins the table name instead of relying on the pluralizer.
func (Savings) TableName() string {
	return "savings"
}

func (s *Savings) Validate() error {
	if s.Goal < 0 {
		return apperr.ValidationFailed("Goal must be non-negative")
	}
	if s.Saved < 0 {
		return apperr.ValidationFailed("Saved amount must be non-negative")
	}
	return nil
}

func (s *Savings) OwnerID() string { return s.UserID }
