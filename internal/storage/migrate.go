package storage

import (
	"gorm.io/gorm"

	"sandoog/internal/models"
)

// AutoMigrate creates or updates the users, budgets, savings and
// transactions tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Budget{},
		&models.Savings{},
		&models.Transaction{},
	)
}
