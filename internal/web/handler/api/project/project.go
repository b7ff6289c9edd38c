// Package project implements the /api/projects resource routes.
package project

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/attach"
	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/project"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

const (
	// Path is the projects resource path.
	Path = handler.APIPath + "/projects"

	// CoverPath uploads and attaches a project cover image.
	CoverPath = Path + "/cover"

	missingSelectorMsg = "Missing identifier (?id=... or body.id)"
)

// Service is the projects API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	store     *upload.Store
	validator *validator.Validate
}

// Handler is the projects API handler.
var Handler = Service{}

var _ handler.StoreService = (*Service)(nil)

// Init initializes the projects handler and registers its routes.
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
	app.Put(Path, s.Replace)
	app.Patch(Path, s.Update)
	app.Delete(Path, s.Delete)
	app.Post(CoverPath, s.UploadCover)
}

type createRequest struct {
	ID            string  `json:"id"` // selector fallback only
	Title         string  `json:"title" validate:"required"`
	TitleEn       string  `json:"title_en"`
	Description   string  `json:"description" validate:"required"`
	DescriptionEn string  `json:"description_en"`
	Image         *string `json:"image" validate:"omitempty,imageurl"`
	Category      string  `json:"category" validate:"required"`
	Capacity      *string `json:"capacity"`
	Location      *string `json:"location"`
	LocationEn    *string `json:"location_en"`
	Status        string  `json:"status"`
	Priority      int     `json:"priority"`
}

func (r createRequest) model() *models.Project {
	status := r.Status
	if status == "" {
		status = models.ProjectStatusCompleted
	}

	return &models.Project{
		Title:         r.Title,
		TitleEn:       r.TitleEn,
		Description:   r.Description,
		DescriptionEn: r.DescriptionEn,
		Image:         r.Image,
		Category:      r.Category,
		Capacity:      r.Capacity,
		Location:      r.Location,
		LocationEn:    r.LocationEn,
		Status:        status,
		Priority:      r.Priority,
	}
}

type patchRequest struct {
	ID            *string `json:"id"` // selector fallback only
	Title         *string `json:"title" validate:"omitempty,min=1"`
	TitleEn       *string `json:"title_en"`
	Description   *string `json:"description" validate:"omitempty,min=1"`
	DescriptionEn *string `json:"description_en"`
	Image         *string `json:"image" validate:"omitempty,imageurl"`
	Category      *string `json:"category" validate:"omitempty,min=1"`
	Capacity      *string `json:"capacity"`
	Location      *string `json:"location"`
	LocationEn    *string `json:"location_en"`
	Status        *string `json:"status"`
	Priority      *int    `json:"priority"`
}

func (r patchRequest) fields() map[string]any {
	out := map[string]any{}

	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	set("title", r.Title)
	set("title_en", r.TitleEn)
	set("description", r.Description)
	set("description_en", r.DescriptionEn)
	set("image", r.Image)
	set("category", r.Category)
	set("capacity", r.Capacity)
	set("location", r.Location)
	set("location_en", r.LocationEn)
	set("status", r.Status)

	if r.Priority != nil {
		out["priority"] = *r.Priority
	}

	return out
}

type deleteRequest struct {
	ID  string   `json:"id"`
	IDs []string `json:"ids"`
}

func selector(c *fiber.Ctx, bodyID string) controller.Selector {
	if id := c.Query("id"); id != "" {
		return controller.Selector{ID: id}
	}

	return controller.Selector{ID: bodyID}
}

// List handles GET /api/projects.
func (s *Service) List(c *fiber.Ctx) error {
	f := controller.Filter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.ResourceDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch projects")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/projects.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	proj := req.model()
	if err := controller.Create(s.db, proj); err != nil {
		return handler.Internal(c, err, "Failed to create project")
	}

	return handler.OK(c, proj)
}

// Replace handles PUT /api/projects.
func (s *Service) Replace(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	sel := selector(c, req.ID)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	updated, err := controller.Replace(s.db, sel, req.model())
	if err != nil {
		return s.fail(c, err, "Failed to update project")
	}

	return handler.OK(c, updated)
}

// Update handles PATCH /api/projects.
func (s *Service) Update(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	bodyID := ""
	if req.ID != nil {
		bodyID = *req.ID
	}

	sel := selector(c, bodyID)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	fields := req.fields()
	if len(fields) == 0 {
		return handler.Fail(c, fiber.StatusUnprocessableEntity, "PATCH requires at least one field")
	}

	updated, err := controller.Update(s.db, sel, fields)
	if err != nil {
		return s.fail(c, err, "Failed to update project")
	}

	return handler.OK(c, updated)
}

// Delete handles DELETE /api/projects: single by id or bulk by ids.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete projects")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	sel := selector(c, req.ID)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := controller.Delete(s.db, sel)
	if err != nil {
		return s.fail(c, err, "Failed to delete project")
	}

	return handler.OK(c, deleted)
}

// UploadCover handles POST /api/projects/cover: multipart upload attached
// as the project's cover image, with rollback when the attachment fails.
func (s *Service) UploadCover(c *fiber.Ctx) error {
	sel := selector(c, c.FormValue("id"))
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Missing file")
	}

	dir := c.Query("dir", c.FormValue("dir"))

	var updated *models.Project
	saved, err := attach.Cover(s.store, file, dir, func(url string) error {
		var uErr error
		updated, uErr = controller.Update(s.db, sel, map[string]any{"image": url})

		return uErr
	})
	if err != nil {
		if errors.Is(err, upload.ErrBadName) {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid directory name")
		}

		return s.fail(c, err, "Failed to attach cover image")
	}

	return handler.OK(c, fiber.Map{"project": updated, "file": saved})
}

func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrProjectNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Project not found")
	default:
		return handler.Internal(c, err, fallback)
	}
}
