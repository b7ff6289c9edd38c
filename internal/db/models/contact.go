package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactStatus is the processing state of a contact message.
type ContactStatus string

const (
	// ContactStatusPending marks a message nobody has looked at yet.
	ContactStatusPending ContactStatus = "pending"
	// ContactStatusRead marks a message that was opened in the back office.
	ContactStatusRead ContactStatus = "read"
	// ContactStatusReplied marks a message that has been answered.
	ContactStatusReplied ContactStatus = "replied"
)

// Valid reports whether s is one of the known contact statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusPending, ContactStatusRead, ContactStatusReplied:
		return true
	}

	return false
}

// Contact represents a message submitted through the contact form.
type Contact struct {
	ID      string  `gorm:"primaryKey;size:32" json:"id"`
	Name    string  `gorm:"size:255;not null" json:"name"`
	Email   string  `gorm:"size:255;not null" json:"email"`
	Phone   *string `gorm:"size:50" json:"phone"`
	Company *string `gorm:"size:255" json:"company"`
	Subject *string `gorm:"size:255" json:"subject"`
	Message string  `gorm:"type:text;not null" json:"message"`
	// Status is pending, read or replied.
	Status    ContactStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the Contact model.
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate assigns an opaque ID when none was set.
func (c *Contact) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}

	return nil
}
