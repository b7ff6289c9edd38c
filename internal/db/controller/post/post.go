// Package post provides CRUD operations for blog posts.
package post

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrPostNotFound is returned when no post matches the selector.
	ErrPostNotFound = errors.New("post not found")
	// ErrMissingSelector is returned when neither id nor slug was supplied.
	ErrMissingSelector = errors.New("missing post identifier")
	// ErrSlugConflict is returned when a slug collides with an existing post.
	ErrSlugConflict = errors.New("slug already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"title":     "title",
	"slug":      "slug",
	"category":  "category",
	"published": "published",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// searchColumns are scanned by the free-text q filter.
var searchColumns = []string{"title", "content", "excerpt", "category", "slug"}

// writable maps updatable payload fields to database columns.
// Immutable fields (id, createdAt, updatedAt) are deliberately absent.
var writable = map[string]string{
	"title":         "title",
	"title_en":      "title_en",
	"slug":          "slug",
	"content":       "content",
	"content_en":    "content_en",
	"excerpt":       "excerpt",
	"excerpt_en":    "excerpt_en",
	"featuredImage": "featured_image",
	"category":      "category",
	"published":     "published",
}

// Selector locates a single post by id or by its unique slug.
type Selector struct {
	ID   string
	Slug string
}

// Empty reports whether the selector carries no identifier.
func (s Selector) Empty() bool {
	return s.ID == "" && s.Slug == ""
}

func (s Selector) apply(tx *gorm.DB) (*gorm.DB, error) {
	switch {
	case s.ID != "":
		return tx.Where("id = ?", s.ID), nil
	case s.Slug != "":
		return tx.Where("slug = ?", s.Slug), nil
	default:
		return nil, ErrMissingSelector
	}
}

// Filter narrows post listings.
type Filter struct {
	Category string
	// Published is tri-state: "true", "false", anything else means all.
	Published string
	Query     string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.Category != "" && f.Category != "all" {
		tx = tx.Where("category = ?", f.Category)
	}

	switch f.Published {
	case "true":
		tx = tx.Where("published = ?", true)
	case "false":
		tx = tx.Where("published = ?", false)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of posts matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Post, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Post{}
	err := f.apply(db.Model(&models.Post{})).
		Scopes(p.Scope(Columns, query.ResourceDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// Get retrieves a single post by selector.
func Get(db *gorm.DB, sel Selector) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx, err := sel.apply(db)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, err
	}

	return &post, nil
}

// Create stores a new post. The slug must be unique.
func Create(db *gorm.DB, post *models.Post) error {
	if db == nil {
		return ErrDBNil
	}

	if err := db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugConflict
		}

		return err
	}

	return nil
}

// Replace overwrites all mutable fields of the selected post.
func Replace(db *gorm.DB, sel Selector, in *models.Post) (*models.Post, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt

	if err := db.Save(in).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugConflict
		}

		return nil, err
	}

	return in, nil
}

// Update applies a partial update. fields is keyed by payload field name;
// unknown and immutable fields are dropped before touching the store.
func Update(db *gorm.DB, sel Selector, fields map[string]any) (*models.Post, error) {
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
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugConflict
		}

		return nil, err
	}

	return Get(db, Selector{ID: existing.ID})
}

// Delete removes a single post and returns the deleted row.
func Delete(db *gorm.DB, sel Selector) (*models.Post, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes posts and returns the removed row count.
// Missing ids are not reported individually.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Post{})

	return res.RowsAffected, res.Error
}

// DeleteBySlugs bulk-deletes posts by slug and returns the removed row count.
func DeleteBySlugs(db *gorm.DB, slugs []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("slug IN ?", slugs).Delete(&models.Post{})

	return res.RowsAffected, res.Error
}
