// Package image provides CRUD operations for entity image galleries.
// Images reference their owning entity through a soft (typeRef, idRef)
// pair; there is no store-level foreign key.
package image

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrImageNotFound is returned when no image matches the given id.
	ErrImageNotFound = errors.New("image not found")
	// ErrMissingSelector is returned when no id was supplied.
	ErrMissingSelector = errors.New("missing image identifier")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"sort":      "sort",
	"url":       "url",
	"alt":       "alt",
	"typeRef":   "type_ref",
	"idRef":     "id_ref",
	"createdAt": "created_at",
}

var searchColumns = []string{"alt", "url"}

// Filter narrows image listings.
type Filter struct {
	TypeRef string
	IDRef   string
	Query   string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.TypeRef != "" {
		tx = tx.Where("type_ref = ?", f.TypeRef)
	}

	if f.IDRef != "" {
		tx = tx.Where("id_ref = ?", f.IDRef)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of images matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Image, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Image{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Image{}
	err := f.apply(db.Model(&models.Image{})).
		Scopes(p.Scope(Columns, query.ImageDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// ListByRef returns every image of one owning entity, sort ascending.
func ListByRef(db *gorm.DB, typeRef, idRef string) ([]models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	items := []models.Image{}
	err := db.Where("type_ref = ? AND id_ref = ?", typeRef, idRef).
		Order("sort asc").
		Find(&items).Error

	return items, err
}

// Get retrieves a single image by id.
func Get(db *gorm.DB, id string) (*models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrMissingSelector
	}

	var img models.Image
	if err := db.Where("id = ?", id).First(&img).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}

		return nil, err
	}

	return &img, nil
}

// Create stores a single image row.
func Create(db *gorm.DB, img *models.Image) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(img).Error
}

// CreateMany attaches urls to one owning entity, skipping urls already
// present for that (typeRef, idRef) pair so re-attachment is idempotent.
// alts is an optional parallel array, paired by position in urls. Sort
// values are the 0-based index within the rows actually created, not
// appended after the existing maximum; callers that need a stable global
// order should reorder afterwards.
// Returns the number of rows created.
func CreateMany(db *gorm.DB, typeRef, idRef string, urls, alts []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var existing []string
	err := db.Model(&models.Image{}).
		Where("type_ref = ? AND id_ref = ? AND url IN ?", typeRef, idRef, urls).
		Pluck("url", &existing).Error
	if err != nil {
		return 0, err
	}

	seen := map[string]bool{}
	for _, u := range existing {
		seen[u] = true
	}

	rows := []models.Image{}
	for i, u := range urls {
		if seen[u] {
			continue
		}

		img := models.Image{
			TypeRef: typeRef,
			IDRef:   idRef,
			URL:     u,
			Sort:    len(rows),
		}
		if i < len(alts) && alts[i] != "" {
			alt := alts[i]
			img.Alt = &alt
		}

		rows = append(rows, img)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := db.Create(&rows).Error; err != nil {
		return 0, err
	}

	return int64(len(rows)), nil
}

// UpdateInput is a partial single-image update. Nil fields are untouched.
type UpdateInput struct {
	URL  *string
	Alt  *string
	Sort *int
}

// Update applies a partial update to a single image by id.
func Update(db *gorm.DB, id string, in UpdateInput) (*models.Image, error) {
	existing, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{}
	if in.URL != nil {
		cols["url"] = *in.URL
	}

	if in.Alt != nil {
		cols["alt"] = *in.Alt
	}

	if in.Sort != nil {
		cols["sort"] = *in.Sort
	}

	if len(cols) == 0 {
		return existing, nil
	}

	if err := db.Model(existing).Updates(cols).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Order is one (id, sort) pair of a reorder batch.
type Order struct {
	ID   string `json:"id" validate:"required"`
	Sort int    `json:"sort"`
}

// Reorder applies all sort updates of a batch in one transaction.
// A single missing id aborts the whole batch; no sort value changes.
func Reorder(db *gorm.DB, orders []Order) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			res := tx.Model(&models.Image{}).
				Where("id = ?", o.ID).
				Update("sort", o.Sort)
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				return ErrImageNotFound
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int64(len(orders)), nil
}

// Delete removes a single image and returns the deleted row.
func Delete(db *gorm.DB, id string) (*models.Image, error) {
	existing, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes images and returns the removed row count.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Image{})

	return res.RowsAffected, res.Error
}

// DeleteByRef removes every image of one owning entity.
func DeleteByRef(db *gorm.DB, typeRef, idRef string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("type_ref = ? AND id_ref = ?", typeRef, idRef).Delete(&models.Image{})

	return res.RowsAffected, res.Error
}
