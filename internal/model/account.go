package model

import (
	"time"
)

// Account represents a registered user of the blog.
// Emails are stored normalized (trimmed, lower-cased).
type Account struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	IsActive     bool      `json:"is_active" gorm:"not null;index"`
	IsStaff      bool      `json:"is_staff" gorm:"not null"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
