// Package uploadapi implements the /api/upload routes over the local
// uploads store.
package uploadapi

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

// Path is the upload resource path.
const Path = handler.APIPath + "/upload"

// metaTables are legacy tables that may hold upload metadata rows. Their
// cleanup is best effort; a missing table or column is not an error.
var metaTables = []string{"upload_files", "files", "uploaded_files"}

// Service is the upload API handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store *upload.Store
}

// Handler is the upload API handler.
var Handler = Service{}

var _ handler.StoreService = (*Service)(nil)

// Init initializes the upload handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *upload.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.store = store

	app.Post(Path, s.Save)
	app.Get(Path, s.List)
	app.Delete(Path, s.Delete)
}

type deleteRequest struct {
	Name  string   `json:"name"`
	Names []string `json:"names"`
	Dir   string   `json:"dir"`
}

// notRemoved describes one file the delete could not remove.
type notRemoved struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// fileMeta is decoded upload metadata kept in the settings store under
// file_* keys.
type fileMeta struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// Save handles POST /api/upload: multipart files stored under the optional
// dir and answered with their public descriptors.
func (s *Service) Save(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}

	if len(files) == 0 {
		return handler.Fail(c, fiber.StatusBadRequest, "Missing files")
	}

	dir := c.Query("dir", c.FormValue("dir"))

	saved, err := s.store.SaveAll(files, dir)
	if err != nil {
		if errors.Is(err, upload.ErrBadName) {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid directory name")
		}

		return handler.Internal(c, err, "Failed to store files")
	}

	urls := make([]string, len(saved))
	for i, f := range saved {
		urls[i] = f.URL
	}

	return handler.OK(c, fiber.Map{"count": len(saved), "urls": urls, "files": saved})
}

// List handles GET /api/upload: upload metadata kept as file_* settings
// rows, optionally filtered by ?type=image|file against the mime type.
func (s *Service) List(c *fiber.Ctx) error {
	var rows []models.Setting
	err := s.db.Where("key LIKE ? AND type = ?", "file_%", models.SettingTypeJSON).
		Order("key asc").
		Find(&rows).Error
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch files")
	}

	kind := c.Query("type")
	items := []fileMeta{}

	for _, row := range rows {
		var meta fileMeta
		if err := json.Unmarshal([]byte(row.Value), &meta); err != nil {
			continue
		}

		isImage := strings.HasPrefix(meta.MimeType, "image/")
		if kind == "image" && !isImage {
			continue
		}

		if kind == "file" && isImage {
			continue
		}

		items = append(items, meta)
	}

	return handler.OK(c, fiber.Map{"items": items})
}

// Delete handles DELETE /api/upload: one name via query or body, or a
// names batch. Every name is attempted; per-file failures are reported in
// notRemoved and answered 404 only when nothing at all was removed.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	names := req.Names
	if len(names) == 0 {
		if name := c.Query("name", req.Name); name != "" {
			names = []string{name}
		}
	}

	if len(names) == 0 {
		return handler.Fail(c, fiber.StatusBadRequest, "Missing name (?name=... or body.name/body.names)")
	}

	dir := c.Query("dir", req.Dir)

	removedNames := []string{}
	failed := []notRemoved{}

	for _, name := range names {
		if err := s.store.Remove(name, dir); err != nil {
			failed = append(failed, notRemoved{Name: name, Reason: removeReason(err)})
			continue
		}

		removedNames = append(removedNames, name)
	}

	removed := len(removedNames)

	// metadata rows only go away for files that were actually removed
	var dbDeleted int64
	if removed > 0 {
		dbDeleted = s.cleanupMeta(removedNames)
	}

	if removed == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No files removed",
			"data": fiber.Map{
				"removedCount": removed,
				"notRemoved":   failed,
				"dbDeleted":    dbDeleted,
			},
		})
	}

	return handler.OK(c, fiber.Map{
		"removedCount": removed,
		"notRemoved":   failed,
		"dbDeleted":    dbDeleted,
	})
}

// cleanupMeta deletes matching metadata rows from the legacy tables and
// the file_* settings rows. Errors are swallowed: metadata cleanup must
// never fail a file delete.
func (s *Service) cleanupMeta(names []string) int64 {
	var deleted int64

	for _, table := range metaTables {
		if !s.db.Migrator().HasTable(table) {
			continue
		}

		res := s.db.Exec("DELETE FROM "+table+" WHERE name IN ?", names)
		if res.Error != nil {
			log.Debug().Err(res.Error).Str("table", table).Msg("upload metadata cleanup skipped")
			continue
		}

		deleted += res.RowsAffected
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = "file_" + name
	}

	res := s.db.Where("key IN ?", keys).Delete(&models.Setting{})
	if res.Error != nil {
		log.Debug().Err(res.Error).Msg("upload settings cleanup skipped")
	} else {
		deleted += res.RowsAffected
	}

	return deleted
}

func removeReason(err error) string {
	switch {
	case errors.Is(err, upload.ErrFileNotFound):
		return "not found"
	case errors.Is(err, upload.ErrBadName):
		return "invalid name"
	default:
		return "remove failed"
	}
}
