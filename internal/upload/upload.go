// Package upload persists multipart file uploads into the public uploads
// directory and maps stored files to their public URLs.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PublicPrefix is the URL prefix under which uploads are served.
const PublicPrefix = "/uploads"

var (
	// ErrFileNotFound is returned when a file to remove does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrNoFiles is returned when a save request carries no files.
	ErrNoFiles = errors.New("no files supplied")
	// ErrBadName is returned for names or directories escaping the uploads root.
	ErrBadName = errors.New("invalid file or directory name")
)

// Store is a local filesystem store rooted at the uploads directory.
type Store struct {
	root string
}

// NewStore creates the uploads root when missing and returns a Store.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}

	return &Store{root: root}, nil
}

// Root returns the uploads root on disk, for static file serving.
func (s *Store) Root() string {
	return s.root
}

// Saved describes one stored file.
type Saved struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// SaveAll writes every file into the optional subdirectory and returns
// their public descriptors. Generated names are <unixmilli>_<index><ext>,
// collision-resistant within a request.
func (s *Store) SaveAll(files []*multipart.FileHeader, subdir string) ([]Saved, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	dir, err := s.dir(subdir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	saved := make([]Saved, 0, len(files))

	for i, fh := range files {
		name := fmt.Sprintf("%d_%d%s", now, i, filepath.Ext(fh.Filename))
		abs := filepath.Join(dir, name)

		if err := writeFile(fh, abs); err != nil {
			return nil, err
		}

		saved = append(saved, Saved{
			Name: name,
			URL:  publicURL(subdir, name),
			Path: abs,
		})
	}

	return saved, nil
}

// Remove deletes one stored file by name.
func (s *Store) Remove(name, subdir string) error {
	dir, err := s.dir(subdir)
	if err != nil {
		return err
	}

	if name == "" || filepath.Base(name) != name {
		return ErrBadName
	}

	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}

		return err
	}

	return os.Remove(target)
}

// dir resolves the optional subdirectory, rejecting anything that would
// escape the uploads root.
func (s *Store) dir(subdir string) (string, error) {
	if subdir == "" {
		return s.root, nil
	}

	clean := filepath.Clean(subdir)
	if clean == "." || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) ||
		filepath.IsAbs(clean) {
		return "", ErrBadName
	}

	return filepath.Join(s.root, clean), nil
}

func writeFile(fh *multipart.FileHeader, target string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		// do not leave a truncated file behind
		_ = os.Remove(target)

		return err
	}

	return nil
}

func publicURL(subdir, name string) string {
	if subdir == "" {
		return PublicPrefix + "/" + url.PathEscape(name)
	}

	return PublicPrefix + "/" + url.PathEscape(subdir) + "/" + url.PathEscape(name)
}

// NameFromURL maps a public /uploads URL back to its subdirectory and file
// name. It returns ok=false for external URLs, which have no local file.
func NameFromURL(raw string) (subdir, name string, ok bool) {
	if !strings.HasPrefix(raw, PublicPrefix+"/") {
		return "", "", false
	}

	rest := strings.TrimPrefix(raw, PublicPrefix+"/")
	unescaped, err := url.PathUnescape(rest)
	if err != nil {
		unescaped = rest
	}

	dir, file := path.Split(unescaped)
	if file == "" {
		return "", "", false
	}

	return strings.Trim(dir, "/"), file, true
}
