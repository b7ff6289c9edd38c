// Package partner provides CRUD operations for partner companies.
package partner

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrPartnerNotFound is returned when no partner matches the selector.
	ErrPartnerNotFound = errors.New("partner not found")
	// ErrMissingSelector is returned when no id was supplied.
	ErrMissingSelector = errors.New("missing partner identifier")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"name":      "name",
	"category":  "category",
	"country":   "country",
	"status":    "status",
	"priority":  "priority",
	"projects":  "projects",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var searchColumns = []string{
	"name", "description", "website", "category", "country", "partnership", "established",
}

var writable = map[string]string{
	"name":        "name",
	"description": "description",
	"logo":        "logo",
	"website":     "website",
	"category":    "category",
	"country":     "country",
	"partnership": "partnership",
	"projects":    "projects",
	"established": "established",
	"status":      "status",
	"priority":    "priority",
}

// Selector locates a single partner. Partners have no secondary key.
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

// Filter narrows partner listings.
type Filter struct {
	Category string
	Country  string
	Status   string
	Query    string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.Category != "" && f.Category != "all" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Country != "" && f.Country != "all" {
		tx = tx.Where("country = ?", f.Country)
	}

	if f.Status != "" && f.Status != "all" {
		tx = tx.Where("status = ?", f.Status)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of partners matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Partner, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Partner{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Partner{}
	err := f.apply(db.Model(&models.Partner{})).
		Scopes(p.Scope(Columns, query.ResourceDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// Get retrieves a single partner by selector.
func Get(db *gorm.DB, sel Selector) (*models.Partner, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx, err := sel.apply(db)
	if err != nil {
		return nil, err
	}

	var partner models.Partner
	if err := tx.First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}

		return nil, err
	}

	return &partner, nil
}

// Create stores a new partner.
func Create(db *gorm.DB, partner *models.Partner) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(partner).Error
}

// Replace overwrites all mutable fields of the selected partner.
func Replace(db *gorm.DB, sel Selector, in *models.Partner) (*models.Partner, error) {
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
func Update(db *gorm.DB, sel Selector, fields map[string]any) (*models.Partner, error) {
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

// Delete removes a single partner and returns the deleted row.
func Delete(db *gorm.DB, sel Selector) (*models.Partner, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes partners and returns the removed row count.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Partner{})

	return res.RowsAffected, res.Error
}
