// Package attach implements the upload-and-attach workflow that links
// stored files to their owning entities. The two store systems involved
// (filesystem and database) are not covered by one transaction; on partial
// failure the workflow compensates by deleting the files it just wrote.
package attach

import (
	"mime/multipart"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/controller/image"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
)

// Cover uploads one file and points an entity's cover field at it through
// the update callback. When the update fails the uploaded file is removed
// again before the error is returned: a cover upload never leaves an
// orphaned file behind.
func Cover(store *upload.Store, file *multipart.FileHeader, dir string, update func(url string) error) (*upload.Saved, error) {
	saved, err := store.SaveAll([]*multipart.FileHeader{file}, dir)
	if err != nil {
		return nil, err
	}

	cover := saved[0]

	if err := update(cover.URL); err != nil {
		if rbErr := store.Remove(cover.Name, dir); rbErr != nil {
			log.Error().Err(rbErr).Str("name", cover.Name).Msg("cover rollback failed")
		}

		return nil, err
	}

	return &cover, nil
}

// Gallery uploads files and creates gallery rows for the owning entity.
// When row creation fails, cleanup of the just-uploaded files is best
// effort: failures are logged and swallowed, the row error surfaces.
// Returns the created row count and the entity's full gallery.
func Gallery(db *gorm.DB, store *upload.Store, files []*multipart.FileHeader, dir, typeRef, idRef string) (int64, []models.Image, error) {
	saved, err := store.SaveAll(files, dir)
	if err != nil {
		return 0, nil, err
	}

	urls := make([]string, len(saved))
	for i, s := range saved {
		urls[i] = s.URL
	}

	count, err := image.CreateMany(db, typeRef, idRef, urls, nil)
	if err != nil {
		for _, s := range saved {
			if rbErr := store.Remove(s.Name, dir); rbErr != nil {
				log.Warn().Err(rbErr).Str("name", s.Name).Msg("gallery cleanup failed")
			}
		}

		return 0, nil, err
	}

	items, err := image.ListByRef(db, typeRef, idRef)
	if err != nil {
		return count, nil, err
	}

	return count, items, nil
}

// Detach removes a gallery row and then, best effort, its physical file.
// The row is deleted first: when it does not exist nothing is touched, and
// a file-removal failure after a successful row delete is only logged.
func Detach(db *gorm.DB, store *upload.Store, id string) (*models.Image, error) {
	deleted, err := image.Delete(db, id)
	if err != nil {
		return nil, err
	}

	if subdir, name, ok := upload.NameFromURL(deleted.URL); ok {
		if rmErr := store.Remove(name, subdir); rmErr != nil {
			log.Warn().Err(rmErr).Str("url", deleted.URL).Msg("detach file cleanup failed")
		}
	}

	return deleted, nil
}
