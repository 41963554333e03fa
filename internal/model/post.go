package model

import "time"

// PostStatus represents the publication status of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "Draft"
	PostStatusPublished PostStatus = "Published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog article.
type Post struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title" gorm:"size:100;not null"`
	CategoryID       uint       `json:"category_id" gorm:"not null;index"`
	AuthorID         uint       `json:"author_id" gorm:"not null;index"`
	FeaturedImage    string     `json:"featured_image" gorm:"size:255"` // object storage key
	ShortDescription string     `json:"short_description" gorm:"size:500"`
	Body             string     `json:"body" gorm:"type:text"`
	Status           PostStatus `json:"status" gorm:"type:varchar(20);not null;default:'Draft';index"`
	IsFeatured       bool       `json:"is_featured" gorm:"default:false;index"`
	CreatedAt        time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"index"`

	// Relations
	Category Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Author   Account  `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}
