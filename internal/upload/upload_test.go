package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFile builds a *multipart.FileHeader carrying the given content.
func multipartFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	return store
}

func TestSaveAll_NamesAndURLs(t *testing.T) {
	store := newTestStore(t)

	files := []*multipart.FileHeader{
		multipartFile(t, "photo.JPG", "aaa"),
		multipartFile(t, "doc.pdf", "bbb"),
	}

	saved, err := store.SaveAll(files, "")
	require.NoError(t, err)
	require.Len(t, saved, 2)

	// generated names keep the extension and differ by batch index
	assert.True(t, strings.HasSuffix(saved[0].Name, "_0.JPG"), saved[0].Name)
	assert.True(t, strings.HasSuffix(saved[1].Name, "_1.pdf"), saved[1].Name)

	for _, s := range saved {
		assert.Equal(t, PublicPrefix+"/"+s.Name, s.URL)

		content, err := os.ReadFile(s.Path)
		require.NoError(t, err)
		assert.NotEmpty(t, content)
	}
}

func TestSaveAll_Subdir(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.SaveAll([]*multipart.FileHeader{multipartFile(t, "a.png", "x")}, "gallery")
	require.NoError(t, err)
	require.Len(t, saved, 1)

	assert.True(t, strings.HasPrefix(saved[0].URL, PublicPrefix+"/gallery/"), saved[0].URL)
	assert.Equal(t, filepath.Join(store.Root(), "gallery", saved[0].Name), saved[0].Path)
}

func TestSaveAll_NoFiles(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveAll(nil, "")
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestSaveAll_RejectsEscapingSubdir(t *testing.T) {
	store := newTestStore(t)
	files := []*multipart.FileHeader{multipartFile(t, "a.png", "x")}

	for _, dir := range []string{"..", "../outside", "/abs"} {
		_, err := store.SaveAll(files, dir)
		require.ErrorIs(t, err, ErrBadName, "dir %q", dir)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.SaveAll([]*multipart.FileHeader{multipartFile(t, "a.png", "x")}, "")
	require.NoError(t, err)

	require.NoError(t, store.Remove(saved[0].Name, ""))

	_, err = os.Stat(saved[0].Path)
	assert.True(t, os.IsNotExist(err))

	// second removal reports not found
	require.ErrorIs(t, store.Remove(saved[0].Name, ""), ErrFileNotFound)
}

func TestRemove_RejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	require.ErrorIs(t, store.Remove("../etc/passwd", ""), ErrBadName)
	require.ErrorIs(t, store.Remove("", ""), ErrBadName)
	require.ErrorIs(t, store.Remove("a.png", ".."), ErrBadName)
}

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantDir   string
		wantName  string
		wantFound bool
	}{
		{name: "root file", raw: "/uploads/123_0.jpg", wantName: "123_0.jpg", wantFound: true},
		{name: "subdir file", raw: "/uploads/gallery/123_0.jpg", wantDir: "gallery", wantName: "123_0.jpg", wantFound: true},
		{name: "external url", raw: "https://cdn.example.com/x.jpg", wantFound: false},
		{name: "prefix only", raw: "/uploads/", wantFound: false},
		{name: "other local path", raw: "/static/css/admin.css", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, name, ok := NameFromURL(tt.raw)
			assert.Equal(t, tt.wantFound, ok)

			if tt.wantFound {
				assert.Equal(t, tt.wantDir, dir)
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
}
