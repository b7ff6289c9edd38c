package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post with bilingual (Vietnamese/English) content.
type Post struct {
	// ID is the opaque unique identifier for the post.
	ID string `gorm:"primaryKey;size:32" json:"id"`
	// Title is the Vietnamese title.
	Title string `gorm:"size:255;not null" json:"title"`
	// TitleEn is the optional English title.
	TitleEn string `gorm:"size:255" json:"title_en"`
	// Slug is the URL slug, unique across all posts.
	Slug string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	// Content is the Vietnamese body.
	Content string `gorm:"type:text;not null" json:"content"`
	// ContentEn is the optional English body.
	ContentEn string `gorm:"type:text" json:"content_en"`
	// Excerpt is a short summary shown in listings.
	Excerpt *string `gorm:"type:text" json:"excerpt"`
	// ExcerptEn is the optional English summary.
	ExcerptEn *string `gorm:"type:text" json:"excerpt_en"`
	// FeaturedImage is the public URL of the cover image.
	FeaturedImage *string `gorm:"size:512" json:"featuredImage"`
	// Category is a free-form category tag.
	Category string `gorm:"size:100;not null;default:general" json:"category"`
	// Published controls public visibility.
	Published bool `gorm:"not null;default:false" json:"published"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns an opaque ID when none was set.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}

	return nil
}
