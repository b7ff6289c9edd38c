package attach

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/controller/image"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Image{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestStore(t *testing.T) *upload.Store {
	t.Helper()

	store, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	return store
}

func multipartFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)

		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["files"]
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}

	return n
}

func TestCover_Success(t *testing.T) {
	store := newTestStore(t)
	file := multipartFiles(t, "cover.jpg")[0]

	var gotURL string
	saved, err := Cover(store, file, "", func(url string) error {
		gotURL = url
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, saved.URL, gotURL)
	assert.FileExists(t, saved.Path)
}

func TestCover_RollsBackFileOnUpdateFailure(t *testing.T) {
	store := newTestStore(t)
	file := multipartFiles(t, "cover.jpg")[0]

	boom := errors.New("entity not found")
	_, err := Cover(store, file, "", func(string) error { return boom })
	require.ErrorIs(t, err, boom)

	// the uploaded file must be gone again
	assert.Equal(t, 0, countFiles(t, store.Root()))
}

func TestGallery_Success(t *testing.T) {
	db := setupTestDB(t)
	store := newTestStore(t)
	files := multipartFiles(t, "a.jpg", "b.jpg")

	count, items, err := Gallery(db, store, files, "", "Project", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, items, 2)

	// batch order maps to sort
	assert.Equal(t, 0, items[0].Sort)
	assert.Equal(t, 1, items[1].Sort)
	assert.Equal(t, 2, countFiles(t, store.Root()))
}

func TestGallery_CleansUpFilesOnRowFailure(t *testing.T) {
	db := setupTestDB(t)
	store := newTestStore(t)

	// dropping the table makes row creation fail after the upload
	require.NoError(t, db.Migrator().DropTable(&models.Image{}))

	_, _, err := Gallery(db, store, multipartFiles(t, "a.jpg"), "", "Project", "p1")
	require.Error(t, err)

	assert.Equal(t, 0, countFiles(t, store.Root()))
}

func TestDetach_RemovesRowAndFile(t *testing.T) {
	db := setupTestDB(t)
	store := newTestStore(t)

	_, items, err := Gallery(db, store, multipartFiles(t, "a.jpg"), "", "Post", "p1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	deleted, err := Detach(db, store, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, deleted.ID)

	_, err = image.Get(db, items[0].ID)
	require.ErrorIs(t, err, image.ErrImageNotFound)
	assert.Equal(t, 0, countFiles(t, store.Root()))
}

func TestDetach_ExternalURLOnlyDeletesRow(t *testing.T) {
	db := setupTestDB(t)
	store := newTestStore(t)

	_, err := image.CreateMany(db, "Post", "p1",
		[]string{"https://cdn.example.com/x.jpg"}, nil)
	require.NoError(t, err)

	items, err := image.ListByRef(db, "Post", "p1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	deleted, err := Detach(db, store, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/x.jpg", deleted.URL)
}

func TestDetach_MissingRowTouchesNothing(t *testing.T) {
	db := setupTestDB(t)
	store := newTestStore(t)

	_, err := Detach(db, store, "missing")
	require.ErrorIs(t, err, image.ErrImageNotFound)
}
