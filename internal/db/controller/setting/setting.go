// Package setting provides CRUD operations and the typed value codec for
// the key/value settings store.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

var (
	// ErrSettingNotFound is returned when no setting matches the selector.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrMissingSelector is returned when neither id nor key was supplied.
	ErrMissingSelector = errors.New("missing setting identifier")
	// ErrKeyConflict is returned when a key collides with an existing setting.
	ErrKeyConflict = errors.New("key already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Columns maps exposed sort field names to database columns.
var Columns = map[string]string{
	"key":   "key",
	"value": "value",
	"type":  "type",
}

var searchColumns = []string{"key", "value"}

// Selector locates a single setting by id or by its unique key.
type Selector struct {
	ID  string
	Key string
}

// Empty reports whether the selector carries no identifier.
func (s Selector) Empty() bool {
	return s.ID == "" && s.Key == ""
}

func (s Selector) apply(tx *gorm.DB) (*gorm.DB, error) {
	switch {
	case s.ID != "":
		return tx.Where("id = ?", s.ID), nil
	case s.Key != "":
		return tx.Where("key = ?", s.Key), nil
	default:
		return nil, ErrMissingSelector
	}
}

// Filter narrows setting listings.
type Filter struct {
	Type  string
	Query string
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.Type != "" && f.Type != "all" {
		tx = tx.Where("type = ?", f.Type)
	}

	if clause, args := query.Search(f.Query, searchColumns...); clause != "" {
		tx = tx.Where(clause, args...)
	}

	return tx
}

// List returns a page of settings matching the filter.
func List(db *gorm.DB, f Filter, p query.Params) ([]models.Setting, query.Pagination, error) {
	if db == nil {
		return nil, query.Pagination{}, ErrDBNil
	}

	var total int64
	if err := f.apply(db.Model(&models.Setting{})).Count(&total).Error; err != nil {
		return nil, query.Pagination{}, err
	}

	items := []models.Setting{}
	err := f.apply(db.Model(&models.Setting{})).
		Scopes(p.Scope(Columns, query.SettingDefaults)).
		Find(&items).Error
	if err != nil {
		return nil, query.Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

// Get retrieves a single setting by selector.
func Get(db *gorm.DB, sel Selector) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx, err := sel.apply(db)
	if err != nil {
		return nil, err
	}

	var setting models.Setting
	if err := tx.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, err
	}

	return &setting, nil
}

// Create stores a new setting. rawValue is encoded according to the
// setting's type before it reaches the store.
func Create(db *gorm.DB, key, settingType string, rawValue any) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if settingType == "" {
		settingType = models.SettingTypeString
	}

	value, err := EncodeValue(settingType, rawValue)
	if err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:   key,
		Value: value,
		Type:  settingType,
	}

	if err := db.Create(setting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrKeyConflict
		}

		return nil, err
	}

	return setting, nil
}

// Replace overwrites key, type and value of the selected setting.
func Replace(db *gorm.DB, sel Selector, key, settingType string, rawValue any) (*models.Setting, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if settingType == "" {
		settingType = models.SettingTypeString
	}

	value, err := EncodeValue(settingType, rawValue)
	if err != nil {
		return nil, err
	}

	existing.Key = key
	existing.Value = value
	existing.Type = settingType

	if err := db.Save(existing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrKeyConflict
		}

		return nil, err
	}

	return existing, nil
}

// UpdateInput is a partial setting update. Nil fields are left untouched.
type UpdateInput struct {
	Key  *string
	Type *string
	// Value is the raw value to encode. HasValue distinguishes an explicit
	// null from an absent field.
	Value    any
	HasValue bool
}

// Update applies a partial update. When the value changes without an
// accompanying type, the stored type governs the encoding.
func Update(db *gorm.DB, sel Selector, in UpdateInput) (*models.Setting, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if in.Key != nil {
		existing.Key = *in.Key
	}

	effectiveType := existing.Type
	if in.Type != nil {
		effectiveType = *in.Type
		existing.Type = effectiveType
	}

	if in.HasValue {
		value, err := EncodeValue(effectiveType, in.Value)
		if err != nil {
			return nil, err
		}

		existing.Value = value
	}

	if err := db.Save(existing).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrKeyConflict
		}

		return nil, err
	}

	return existing, nil
}

// Delete removes a single setting and returns the deleted row.
func Delete(db *gorm.DB, sel Selector) (*models.Setting, error) {
	existing, err := Get(db, sel)
	if err != nil {
		return nil, err
	}

	if err := db.Delete(existing).Error; err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteByIDs bulk-deletes settings and returns the removed row count.
func DeleteByIDs(db *gorm.DB, ids []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("id IN ?", ids).Delete(&models.Setting{})

	return res.RowsAffected, res.Error
}

// DeleteByKeys bulk-deletes settings by key and returns the removed row count.
func DeleteByKeys(db *gorm.DB, keys []string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	res := db.Where("key IN ?", keys).Delete(&models.Setting{})

	return res.RowsAffected, res.Error
}
