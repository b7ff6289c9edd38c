// Package image implements the /api/images gallery routes.
package image

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/attach"
	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/image"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

const (
	// Path is the images resource path.
	Path = handler.APIPath + "/images"

	// UploadPath uploads files and attaches them as gallery rows.
	UploadPath = Path + "/upload"

	missingSelectorMsg = "Missing identifier (?id=... or body.id)"
)

// Service is the images API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	store     *upload.Store
	validator *validator.Validate
}

// Handler is the images API handler.
var Handler = Service{}

var _ handler.StoreService = (*Service)(nil)

// Init initializes the images handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *upload.Store) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.store = store
	s.validator = handler.NewValidator()

	app.Get(Path, s.List)
	app.Post(Path, s.Create)
	app.Patch(Path, s.Update)
	app.Delete(Path, s.Delete)
	app.Post(UploadPath, s.UploadGallery)
}

// createRequest covers both forms of POST /api/images: a single row via
// url/alt/sort, or a bulk attach via urls/alts. A non-nil url wins.
type createRequest struct {
	TypeRef string   `json:"typeRef" validate:"required"`
	IDRef   string   `json:"idRef" validate:"required"`
	URL     *string  `json:"url" validate:"omitempty,imageurl"`
	Alt     *string  `json:"alt"`
	Sort    *int     `json:"sort"`
	URLs    []string `json:"urls" validate:"omitempty,min=1,dive,imageurl"`
	Alts    []string `json:"alts"`
}

// patchRequest drives both the single-image update and the bulk reorder.
// A non-empty orders array wins over the single-image fields.
type patchRequest struct {
	ID     *string            `json:"id"`
	URL    *string            `json:"url" validate:"omitempty,imageurl"`
	Alt    *string            `json:"alt"`
	Sort   *int               `json:"sort"`
	Orders []controller.Order `json:"orders" validate:"omitempty,min=1,dive"`
}

type deleteRequest struct {
	ID      string   `json:"id"`
	IDs     []string `json:"ids"`
	TypeRef string   `json:"typeRef"`
	IDRef   string   `json:"idRef"`
}

// List handles GET /api/images, filtered by owning entity.
func (s *Service) List(c *fiber.Ctx) error {
	f := controller.Filter{
		TypeRef: c.Query("typeRef"),
		IDRef:   c.Query("idRef"),
		Query:   c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.ImageDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch images")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/images: a single row when the body carries a
// url, or a bulk attach via urls. Urls already attached to that entity
// are skipped on the bulk path.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	if req.URL == nil && len(req.URLs) == 0 {
		return handler.Fail(c, fiber.StatusUnprocessableEntity, "Missing url or urls")
	}

	if req.URL != nil {
		img := models.Image{
			TypeRef: req.TypeRef,
			IDRef:   req.IDRef,
			URL:     *req.URL,
			Alt:     req.Alt,
		}
		if req.Sort != nil {
			img.Sort = *req.Sort
		}

		if err := controller.Create(s.db, &img); err != nil {
			return handler.Internal(c, err, "Failed to create image")
		}

		return handler.OK(c, img)
	}

	count, err := controller.CreateMany(s.db, req.TypeRef, req.IDRef, req.URLs, req.Alts)
	if err != nil {
		return handler.Internal(c, err, "Failed to create images")
	}

	items, err := controller.ListByRef(s.db, req.TypeRef, req.IDRef)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch images")
	}

	return handler.OK(c, fiber.Map{"count": count, "items": items})
}

// Update handles PATCH /api/images: single-image update by id, or a bulk
// reorder when the body carries an orders array. A reorder is all or
// nothing; one unknown id rolls the whole batch back.
func (s *Service) Update(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	if len(req.Orders) > 0 {
		count, err := controller.Reorder(s.db, req.Orders)
		if err != nil {
			return s.fail(c, err, "Failed to reorder images")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	id := c.Query("id")
	if id == "" && req.ID != nil {
		id = *req.ID
	}

	if id == "" {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if req.URL == nil && req.Alt == nil && req.Sort == nil {
		return handler.Fail(c, fiber.StatusUnprocessableEntity, "PATCH requires at least one field")
	}

	updated, err := controller.Update(s.db, id, controller.UpdateInput{
		URL:  req.URL,
		Alt:  req.Alt,
		Sort: req.Sort,
	})
	if err != nil {
		return s.fail(c, err, "Failed to update image")
	}

	return handler.OK(c, updated)
}

// Delete handles DELETE /api/images: single by id with file cleanup, bulk
// by ids, or every image of one owning entity via typeRef+idRef.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete images")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	typeRef := c.Query("typeRef", req.TypeRef)
	idRef := c.Query("idRef", req.IDRef)
	if typeRef != "" && idRef != "" {
		count, err := controller.DeleteByRef(s.db, typeRef, idRef)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete images")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	id := c.Query("id", req.ID)
	if id == "" {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := attach.Detach(s.db, s.store, id)
	if err != nil {
		return s.fail(c, err, "Failed to delete image")
	}

	return handler.OK(c, deleted)
}

// UploadGallery handles POST /api/images/upload: multipart upload attached
// as gallery rows of the given owning entity. When row creation fails the
// uploaded files are cleaned up again.
func (s *Service) UploadGallery(c *fiber.Ctx) error {
	typeRef := c.FormValue("typeRef")
	idRef := c.FormValue("idRef")
	if typeRef == "" || idRef == "" {
		return handler.Fail(c, fiber.StatusBadRequest, "Missing typeRef or idRef")
	}

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

	count, items, err := attach.Gallery(s.db, s.store, files, dir, typeRef, idRef)
	if err != nil {
		if errors.Is(err, upload.ErrBadName) {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid directory name")
		}

		return handler.Internal(c, err, "Failed to attach images")
	}

	return handler.OK(c, fiber.Map{"count": count, "items": items})
}

func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrImageNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Image not found")
	default:
		return handler.Internal(c, err, fallback)
	}
}
