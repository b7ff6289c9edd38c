package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner statuses used by convention. The column is free-form.
const (
	PartnerStatusActive   = "active"
	PartnerStatusInactive = "inactive"
)

// Partner represents a partner company shown on the partners page.
type Partner struct {
	ID          string  `gorm:"primaryKey;size:32" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	// Logo and Website are public URLs.
	Logo    *string `gorm:"size:512" json:"logo"`
	Website *string `gorm:"size:512" json:"website"`
	// Category, Country and Partnership are free-form labels.
	Category    *string `gorm:"size:100" json:"category"`
	Country     *string `gorm:"size:100" json:"country"`
	Partnership *string `gorm:"size:100" json:"partnership"`
	// Projects counts joint projects with this partner.
	Projects int `gorm:"not null;default:0" json:"projects"`
	// Established is free text, e.g. "1998" or "Q2-2010".
	Established *string   `gorm:"size:50" json:"established"`
	Status      string    `gorm:"size:50;not null;default:active" json:"status"`
	Priority    int       `gorm:"not null;default:0" json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Partner model.
func (Partner) TableName() string {
	return "partners"
}

// BeforeCreate assigns an opaque ID when none was set.
func (p *Partner) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}

	return nil
}
