package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses used by convention. The column is free-form.
const (
	ProjectStatusPlanned    = "planned"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
)

// Project represents a renewable-energy project reference.
type Project struct {
	ID          string `gorm:"primaryKey;size:32" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	TitleEn     string `gorm:"size:255" json:"title_en"`
	Description string `gorm:"type:text;not null" json:"description"`
	// DescriptionEn is the optional English description.
	DescriptionEn string `gorm:"type:text" json:"description_en"`
	// Image is the public URL of the cover image.
	Image *string `gorm:"size:512" json:"image"`
	// Category is a free-form tag (solar/wind/hydro/hybrid/biomass by convention).
	Category string `gorm:"size:100;not null" json:"category"`
	// Capacity is a free-text rating such as "50MW".
	Capacity *string `gorm:"size:100" json:"capacity"`
	Location *string `gorm:"size:255" json:"location"`
	// LocationEn is the optional English location name.
	LocationEn *string `gorm:"size:255" json:"location_en"`
	Status     string  `gorm:"size:50;not null;default:completed" json:"status"`
	// Priority orders projects on the site, higher is more prominent.
	Priority  int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Project model.
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns an opaque ID when none was set.
func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}

	return nil
}
