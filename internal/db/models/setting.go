package models

import (
	"gorm.io/gorm"
)

// Setting value types. They govern how Value is encoded and decoded.
const (
	SettingTypeString  = "string"
	SettingTypeNumber  = "number"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
)

// Setting represents a typed key/value configuration entry.
// Value is always stored as a string; Type drives the codec.
type Setting struct {
	ID    string `gorm:"primaryKey;size:32" json:"id"`
	Key   string `gorm:"uniqueIndex;size:255;not null" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`
	Type  string `gorm:"size:20;not null;default:string" json:"type"`
}

// TableName specifies the table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// BeforeCreate assigns an opaque ID when none was set.
func (s *Setting) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}

	return nil
}
