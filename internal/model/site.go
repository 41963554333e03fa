package model

import "time"

// About is the single "about us" block shown on the homepage.
type About struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Heading     string    `json:"heading" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SocialLink is a footer link to a social platform.
type SocialLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Platform  string    `json:"platform" gorm:"size:50;not null"`
	Link      string    `json:"link" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}
