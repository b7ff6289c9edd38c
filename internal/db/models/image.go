package models

import (
	"time"

	"gorm.io/gorm"
)

// Image links an uploaded file to an owning entity through a soft
// (typeRef, idRef) reference. There is no foreign key: the owning row may
// be deleted independently and the image rows cleaned up by the caller.
type Image struct {
	ID string `gorm:"primaryKey;size:32" json:"id"`
	// TypeRef names the owning entity kind, e.g. "Post" or "Project".
	TypeRef string `gorm:"size:50;not null;index:idx_images_ref" json:"typeRef"`
	// IDRef is the owning entity's id.
	IDRef string  `gorm:"column:id_ref;size:32;not null;index:idx_images_ref" json:"idRef"`
	URL   string  `gorm:"size:512;not null" json:"url"`
	Alt   *string `gorm:"size:255" json:"alt"`
	// Sort orders images within their owning entity, ascending.
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Image model.
func (Image) TableName() string {
	return "images"
}

// BeforeCreate assigns an opaque ID when none was set.
func (i *Image) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}

	return nil
}
