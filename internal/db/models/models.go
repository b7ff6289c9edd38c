// Package models contains database model definitions.
package models

import (
	"github.com/xanhenergy/xanhenergy-admin/internal/uniuri"
)

// IDLen is the length of generated row identifiers.
const IDLen = 24

// NewID returns a new opaque row identifier.
// Identifiers are random strings, not sequential integers, so they can be
// exposed in URLs without revealing row counts.
func NewID() string {
	return uniuri.NewLen(IDLen)
}
