package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreate_EncodesByType(t *testing.T) {
	db := setupTestDB(t)

	s, err := Create(db, "max_items", models.SettingTypeNumber, "25")
	require.NoError(t, err)
	assert.Equal(t, "25", s.Value)
	assert.Equal(t, models.SettingTypeNumber, s.Type)
	assert.Len(t, s.ID, models.IDLen)

	s, err = Create(db, "maintenance", models.SettingTypeBoolean, "yes")
	require.NoError(t, err)
	assert.Equal(t, "true", s.Value)

	s, err = Create(db, "menu", models.SettingTypeJSON, map[string]any{"home": "/"})
	require.NoError(t, err)
	assert.Equal(t, `{"home":"/"}`, s.Value)
}

func TestCreate_DefaultsToString(t *testing.T) {
	db := setupTestDB(t)

	s, err := Create(db, "company_name", "", "GreenTech Solutions")
	require.NoError(t, err)
	assert.Equal(t, models.SettingTypeString, s.Type)
	assert.Equal(t, "GreenTech Solutions", s.Value)
}

func TestCreate_KeyConflict(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "dup", models.SettingTypeString, "a")
	require.NoError(t, err)

	_, err = Create(db, "dup", models.SettingTypeString, "b")
	require.ErrorIs(t, err, ErrKeyConflict)
}

func TestCreate_CodecFailureLeavesNothingBehind(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "bad", models.SettingTypeNumber, "not a number")
	require.ErrorIs(t, err, ErrInvalidNumber)

	_, err = Get(db, Selector{Key: "bad"})
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestGet_ByIDAndKey(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "company_email", models.SettingTypeString, "info@greentech.com")
	require.NoError(t, err)

	byKey, err := Get(db, Selector{Key: "company_email"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	byID, err := Get(db, Selector{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "company_email", byID.Key)

	_, err = Get(db, Selector{})
	require.ErrorIs(t, err, ErrMissingSelector)
}

func TestUpdate_ValueWithoutTypeUsesStoredType(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "max_items", models.SettingTypeNumber, "10")
	require.NoError(t, err)

	updated, err := Update(db, Selector{Key: "max_items"}, UpdateInput{
		Value:    "42",
		HasValue: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", updated.Value)
	assert.Equal(t, models.SettingTypeNumber, updated.Type)

	// an invalid value for the stored type is rejected
	_, err = Update(db, Selector{Key: "max_items"}, UpdateInput{
		Value:    "abc",
		HasValue: true,
	})
	require.ErrorIs(t, err, ErrInvalidNumber)
}

func TestUpdate_TypeChangeReencodesValue(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "flag", models.SettingTypeString, "1")
	require.NoError(t, err)

	boolean := models.SettingTypeBoolean
	updated, err := Update(db, Selector{Key: "flag"}, UpdateInput{
		Type:     &boolean,
		Value:    "1",
		HasValue: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SettingTypeBoolean, updated.Type)
	assert.Equal(t, "true", updated.Value)
}

func TestUpdate_KeyRename(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "old_key", models.SettingTypeString, "v")
	require.NoError(t, err)

	newKey := "new_key"
	updated, err := Update(db, Selector{Key: "old_key"}, UpdateInput{Key: &newKey})
	require.NoError(t, err)
	assert.Equal(t, "new_key", updated.Key)
	assert.Equal(t, "v", updated.Value)
}

func TestUpdate_KeyRenameConflict(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "taken", models.SettingTypeString, "a")
	require.NoError(t, err)
	_, err = Create(db, "mine", models.SettingTypeString, "b")
	require.NoError(t, err)

	taken := "taken"
	_, err = Update(db, Selector{Key: "mine"}, UpdateInput{Key: &taken})
	require.ErrorIs(t, err, ErrKeyConflict)
}

func TestReplace(t *testing.T) {
	db := setupTestDB(t)

	orig, err := Create(db, "k", models.SettingTypeString, "v")
	require.NoError(t, err)

	updated, err := Replace(db, Selector{Key: "k"}, "k2", models.SettingTypeNumber, "7")
	require.NoError(t, err)
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "k2", updated.Key)
	assert.Equal(t, "7", updated.Value)
}

func TestList_TypeFilter(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "a", models.SettingTypeString, "1")
	require.NoError(t, err)
	_, err = Create(db, "b", models.SettingTypeNumber, "2")
	require.NoError(t, err)
	_, err = Create(db, "c", models.SettingTypeNumber, "3")
	require.NoError(t, err)

	p := query.Parse(func(string) string { return "" }, query.SettingDefaults)

	items, pagination, err := List(db, Filter{Type: models.SettingTypeNumber}, p)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), pagination.Total)

	// default ordering is by key ascending
	items, _, err = List(db, Filter{}, p)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Key)
	assert.Equal(t, "c", items[2].Key)
}

func TestDeleteByKeys(t *testing.T) {
	db := setupTestDB(t)

	for _, k := range []string{"a", "b", "c"} {
		_, err := Create(db, k, models.SettingTypeString, k)
		require.NoError(t, err)
	}

	count, err := DeleteByKeys(db, []string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = Get(db, Selector{Key: "b"})
	require.NoError(t, err)
}

func TestDelete_ReturnsDeletedRow(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, "gone", models.SettingTypeString, "v")
	require.NoError(t, err)

	deleted, err := Delete(db, Selector{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "gone", deleted.Key)

	_, err = Get(db, Selector{ID: created.ID})
	require.ErrorIs(t, err, ErrSettingNotFound)
}
