// Package contact provides CRUD operations for contact-form messages.
package contact

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrContactNotFound is returned when no contact matches the selector.
	ErrContactNotFound = errors.New("contact not found")
	// ErrMissingSelector is returned when no id was supplied.
	ErrMissingSelector = errors.New("missing contact identifier")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"name":      "name",
	"email":     "email",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var searchColumns = []string{"name", "email", "phone", "company", "subject", "message"}

var writable = map[string]string{
	"name":    "name",
	"email":   "email",
	"phone":   "phone",
	"company": "company",
	"subject": "subject",
	"message": "message",
	"status":  "status",
}

// Selector locates a single contact. Contacts have no secondary key.
type Selector struct {
	ID string
}

// Empty reports whether the selector carries no identifier.
func (s Selector) Empty() bool {
	return s.ID == ""
}

func (s Selector) apply(tx *gorm.DB) (*gorm.DB, error) {
	if s.ID == "" {
		return nil, ErrMissingSelector
	}

	return tx.Where("id = ?", s.ID), nil
}

// Filter narrows contact listings.
type Filter struct {
	Status string
	Query  string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.Status != "" && f.Status != "all" {
		tx = tx.Where("status = ?", f.Status)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of contacts matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Contact, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Contact{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Contact{}
	err := f.apply(db.Model(&models.Contact{})).
		Scopes(p.Scope(Columns, query.ResourceDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// Get retrieves a single contact by selector.
func Get(db *gorm.DB, sel Selector) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx, err := sel.apply(db)
	if err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := tx.First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}

		return nil, err
	}

	return &contact, nil
}

// Create stores a new contact message.
func Create(db *gorm.DB, contact *models.Contact) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(contact).Error
}

// Replace overwrites all mutable fields of the selected contact.
func Replace(db *gorm.DB, sel Selector, in *models.Contact) (*models.Contact, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt

	if err := db.Save(in).Error; err != nil {
		return nil, err
	}

	return in, nil
}

// Update applies a partial update. fields is keyed by payload field name;
// unknown and immutable fields are dropped before touching the store.
func Update(db *gorm.DB, sel Selector, fields map[string]any) (*models.Contact, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{}
	for k, v := range fields {
		if col, ok := writable[k]; ok {
			cols[col] = v
		}
	}

	if len(cols) == 0 {
		return existing, nil
	}

	if err := db.Model(existing).Updates(cols).Error; err != nil {
		return nil, err
	}

	return Get(db, Selector{ID: existing.ID})
}

// Delete removes a single contact and returns the deleted row.
func Delete(db *gorm.DB, sel Selector) (*models.Contact, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes contacts and returns the removed row count.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Contact{})

	return res.RowsAffected, res.Error
}
