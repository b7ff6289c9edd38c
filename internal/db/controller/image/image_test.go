package image

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Image{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestCreateMany_SortIsBatchIndex(t *testing.T) {
	db := setupTestDB(t)

	count, err := CreateMany(db, "Project", "p1",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"},
		[]string{"first", "", "third"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	items, err := ListByRef(db, "Project", "p1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	for i, img := range items {
		assert.Equal(t, i, img.Sort)
	}

	require.NotNil(t, items[0].Alt)
	assert.Equal(t, "first", *items[0].Alt)
	assert.Nil(t, items[1].Alt)
}

func TestCreateMany_IsIdempotentPerRef(t *testing.T) {
	db := setupTestDB(t)

	count, err := CreateMany(db, "Post", "p1", []string{"/uploads/a.jpg", "/uploads/b.jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// re-attaching urls to the same entity only creates the new one
	count, err = CreateMany(db, "Post", "p1",
		[]string{"/uploads/a.jpg", "/uploads/c.jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	items, err := ListByRef(db, "Post", "p1")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// the same url on a different entity is a fresh row
	count, err = CreateMany(db, "Post", "p2", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateMany_SortSkipsDuplicates(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Post", "p1", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	// a.jpg is skipped, so b.jpg is the first created row of this batch
	count, err := CreateMany(db, "Post", "p1",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	items, err := ListByRef(db, "Post", "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, img := range items {
		if img.URL == "/uploads/b.jpg" {
			assert.Equal(t, 0, img.Sort)
		}
	}
}

func TestCreateMany_AllDuplicates(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Post", "p1", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	count, err := CreateMany(db, "Post", "p1", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestReorder_AppliesAllPairs(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Project", "p1",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"}, nil)
	require.NoError(t, err)

	items, err := ListByRef(db, "Project", "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	count, err := Reorder(db, []Order{
		{ID: items[0].ID, Sort: 9},
		{ID: items[1].ID, Sort: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	reordered, err := ListByRef(db, "Project", "p1")
	require.NoError(t, err)
	assert.Equal(t, items[1].ID, reordered[0].ID)
	assert.Equal(t, 3, reordered[0].Sort)
	assert.Equal(t, 9, reordered[1].Sort)
}

func TestReorder_UnknownIDRollsBackBatch(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Project", "p1", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	items, err := ListByRef(db, "Project", "p1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = Reorder(db, []Order{
		{ID: items[0].ID, Sort: 5},
		{ID: "missing", Sort: 1},
	})
	require.ErrorIs(t, err, ErrImageNotFound)

	// the first pair must not have been applied
	after, err := Get(db, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Sort)
}

func TestUpdate_PartialFields(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Post", "p1", []string{"/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	items, err := ListByRef(db, "Post", "p1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	alt := "caption"
	updated, err := Update(db, items[0].ID, UpdateInput{Alt: &alt})
	require.NoError(t, err)
	require.NotNil(t, updated.Alt)
	assert.Equal(t, "caption", *updated.Alt)
	assert.Equal(t, "/uploads/a.jpg", updated.URL)
}

func TestDeleteByRef(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateMany(db, "Project", "p1", []string{"/uploads/a.jpg", "/uploads/b.jpg"}, nil)
	require.NoError(t, err)
	_, err = CreateMany(db, "Project", "p2", []string{"/uploads/c.jpg"}, nil)
	require.NoError(t, err)

	count, err := DeleteByRef(db, "Project", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	remaining, err := ListByRef(db, "Project", "p2")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := Delete(db, "missing")
	require.ErrorIs(t, err, ErrImageNotFound)

	_, err = Get(db, "")
	require.ErrorIs(t, err, ErrMissingSelector)
}
