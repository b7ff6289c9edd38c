// Package project provides CRUD operations for renewable-energy projects.
package project

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrProjectNotFound is returned when no project matches the selector.
	ErrProjectNotFound = errors.New("project not found")
	// ErrMissingSelector is returned when no id was supplied.
	ErrMissingSelector = errors.New("missing project identifier")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"title":     "title",
	"category":  "category",
	"status":    "status",
	"priority":  "priority",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var searchColumns = []string{"title", "description", "location", "category"}

var writable = map[string]string{
	"title":          "title",
	"title_en":       "title_en",
	"description":    "description",
	"description_en": "description_en",
	"image":          "image",
	"category":       "category",
	"capacity":       "capacity",
	"location":       "location",
	"location_en":    "location_en",
	"status":         "status",
	"priority":       "priority",
}

// Selector locates a single project. Projects have no secondary key.
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

// Filter narrows project listings.
type Filter struct {
	Category string
	Status   string
	Query    string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.Category != "" && f.Category != "all" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Status != "" && f.Status != "all" {
		tx = tx.Where("status = ?", f.Status)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of projects matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Project, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Project{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Project{}
	err := f.apply(db.Model(&models.Project{})).
		Scopes(p.Scope(Columns, query.ResourceDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// Get retrieves a single project by selector.
func Get(db *gorm.DB, sel Selector) (*models.Project, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx, err := sel.apply(db)
	if err != nil {
		return nil, err
	}

	var proj models.Project
	if err := tx.First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	return &proj, nil
}

// Create stores a new project.
func Create(db *gorm.DB, proj *models.Project) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(proj).Error
}

// Replace overwrites all mutable fields of the selected project.
func Replace(db *gorm.DB, sel Selector, in *models.Project) (*models.Project, error) {
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
func Update(db *gorm.DB, sel Selector, fields map[string]any) (*models.Project, error) {
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

// Delete removes a single project and returns the deleted row.
func Delete(db *gorm.DB, sel Selector) (*models.Project, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes projects and returns the removed row count.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Project{})

	return res.RowsAffected, res.Error
}
