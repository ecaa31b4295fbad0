package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser = "user"

	// GuestUsernamePrefix is reserved for generated guest accounts.
	GuestUsernamePrefix = "guest_"
)

type User struct {
	Base
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:50;not null;default:user" json:"role"`
	IsGuest      bool      `gorm:"not null;default:false;index" json:"is_guest"`
	LastActivity time.Time `gorm:"not null" json:"last_activity"`

	// Owned records. The FK constraints carry no ON DELETE action: children
	// are removed explicitly by storage.DeleteUserCascade.
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"-"`
	Savings      []Savings     `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeSave stores every timestamp in UTC.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.LastActivity.IsZero() {
		u.LastActivity = time.Now()
	}
	u.LastActivity = u.LastActivity.UTC()
	u.Base.normalize()
	return nil
}

// AfterFind converts loaded timestamps to UTC. Drivers hand back
// zone-less columns as UTC already, so this never shifts the instant.
func (u *User) AfterFind(tx *gorm.DB) error {
	u.LastActivity = u.LastActivity.UTC()
	u.Base.normalize()
	return nil
}

// IdleFor reports how long the user has been inactive at now.
func (u User) IdleFor(now time.Time) time.Duration {
	return now.UTC().Sub(u.LastActivity)
}
