package post

import (
	"testing"
	"time"

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

	err = db.AutoMigrate(&models.Post{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newPost(slug string) *models.Post {
	return &models.Post{
		Title:    "Bài viết " + slug,
		Slug:     slug,
		Content:  "Nội dung",
		Category: "general",
	}
}

func TestCreate_AssignsID(t *testing.T) {
	db := setupTestDB(t)

	p := newPost("first")
	require.NoError(t, Create(db, p))

	assert.Len(t, p.ID, models.IDLen)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreate_DuplicateSlug(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, newPost("dup")))

	err := Create(db, newPost("dup"))
	require.ErrorIs(t, err, ErrSlugConflict)
}

func TestGet_BySelector(t *testing.T) {
	db := setupTestDB(t)

	p := newPost("hello")
	require.NoError(t, Create(db, p))

	byID, err := Get(db, Selector{ID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, p.Slug, byID.Slug)

	bySlug, err := Get(db, Selector{Slug: "hello"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = Get(db, Selector{ID: "does-not-exist"})
	require.ErrorIs(t, err, ErrPostNotFound)

	_, err = Get(db, Selector{})
	require.ErrorIs(t, err, ErrMissingSelector)
}

func TestGet_IDWinsOverSlug(t *testing.T) {
	db := setupTestDB(t)

	a := newPost("a")
	b := newPost("b")
	require.NoError(t, Create(db, a))
	require.NoError(t, Create(db, b))

	got, err := Get(db, Selector{ID: a.ID, Slug: "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", got.Slug)
}

func TestList_FilterAndPagination(t *testing.T) {
	db := setupTestDB(t)

	for _, p := range []*models.Post{
		{Title: "Solar news", Slug: "solar-news", Content: "x", Category: "solar", Published: true},
		{Title: "Wind news", Slug: "wind-news", Content: "x", Category: "wind", Published: true},
		{Title: "Draft", Slug: "draft", Content: "x", Category: "solar", Published: false},
	} {
		require.NoError(t, Create(db, p))
	}

	p := query.Parse(func(string) string { return "" }, query.ResourceDefaults)

	items, pagination, err := List(db, Filter{}, p)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 1, pagination.Pages)

	items, _, err = List(db, Filter{Category: "solar"}, p)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, _, err = List(db, Filter{Published: "false"}, p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "draft", items[0].Slug)

	// free-text search is case-insensitive
	items, _, err = List(db, Filter{Query: "WIND"}, p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "wind-news", items[0].Slug)
}

func TestReplace_PreservesIDAndCreatedAt(t *testing.T) {
	db := setupTestDB(t)

	orig := newPost("orig")
	require.NoError(t, Create(db, orig))

	updated, err := Replace(db, Selector{Slug: "orig"}, &models.Post{
		Title:    "Replaced",
		Slug:     "replaced",
		Content:  "new content",
		Category: "news",
	})
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "replaced", updated.Slug)
	assert.WithinDuration(t, orig.CreatedAt, updated.CreatedAt, time.Second)
}

func TestUpdate_DropsImmutableFields(t *testing.T) {
	db := setupTestDB(t)

	p := newPost("patchme")
	require.NoError(t, Create(db, p))

	updated, err := Update(db, Selector{ID: p.ID}, map[string]any{
		"title":     "New title",
		"id":        "evil-id",
		"createdAt": "2001-01-01",
		"unknown":   "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, p.ID, updated.ID)
	assert.WithinDuration(t, p.CreatedAt, updated.CreatedAt, time.Second)
}

func TestUpdate_SlugConflict(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, newPost("one")))
	two := newPost("two")
	require.NoError(t, Create(db, two))

	_, err := Update(db, Selector{ID: two.ID}, map[string]any{"slug": "one"})
	require.ErrorIs(t, err, ErrSlugConflict)
}

func TestDelete_ReturnsDeletedRow(t *testing.T) {
	db := setupTestDB(t)

	p := newPost("gone")
	require.NoError(t, Create(db, p))

	deleted, err := Delete(db, Selector{Slug: "gone"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = Get(db, Selector{ID: p.ID})
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeleteByIDs_CountsOnlyExisting(t *testing.T) {
	db := setupTestDB(t)

	a := newPost("a")
	b := newPost("b")
	require.NoError(t, Create(db, a))
	require.NoError(t, Create(db, b))

	count, err := DeleteByIDs(db, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteBySlugs(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, newPost("x")))
	require.NoError(t, Create(db, newPost("y")))
	require.NoError(t, Create(db, newPost("z")))

	count, err := DeleteBySlugs(db, []string{"x", "z"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	items, _, err := List(db, Filter{}, query.Parse(func(string) string { return "" }, query.ResourceDefaults))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "y", items[0].Slug)
}

func TestNilDB(t *testing.T) {
	require.ErrorIs(t, Create(nil, newPost("n")), ErrDBNil)

	_, err := Get(nil, Selector{ID: "x"})
	require.ErrorIs(t, err, ErrDBNil)

	_, _, err = List(nil, Filter{}, query.Params{})
	require.ErrorIs(t, err, ErrDBNil)
}
