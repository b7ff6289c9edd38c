// Package partner implements the /api/partners resource routes.
package partner

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/partner"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

// Path is the partners resource path.
const Path = handler.APIPath + "/partners"

const missingSelectorMsg = "Missing identifier (?id=... or body.id)"

// Service is the partners API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the partners API handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the partners handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	app.Get(Path, s.List)
	app.Post(Path, s.Create)
	app.Put(Path, s.Replace)
	app.Patch(Path, s.Update)
	app.Delete(Path, s.Delete)
}

type createRequest struct {
	ID          string  `json:"id"` // selector fallback only
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Logo        *string `json:"logo" validate:"omitempty,imageurl"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Category    *string `json:"category"`
	Country     *string `json:"country"`
	Partnership *string `json:"partnership"`
	Projects    int     `json:"projects" validate:"min=0"`
	Established *string `json:"established"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority"`
}

func (r createRequest) model() *models.Partner {
	status := r.Status
	if status == "" {
		status = models.PartnerStatusActive
	}

	return &models.Partner{
		Name:        r.Name,
		Description: r.Description,
		Logo:        r.Logo,
		Website:     r.Website,
		Category:    r.Category,
		Country:     r.Country,
		Partnership: r.Partnership,
		Projects:    r.Projects,
		Established: r.Established,
		Status:      status,
		Priority:    r.Priority,
	}
}

type patchRequest struct {
	ID          *string `json:"id"` // selector fallback only
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Logo        *string `json:"logo" validate:"omitempty,imageurl"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Category    *string `json:"category"`
	Country     *string `json:"country"`
	Partnership *string `json:"partnership"`
	Projects    *int    `json:"projects" validate:"omitempty,min=0"`
	Established *string `json:"established"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
}

func (r patchRequest) fields() map[string]any {
	out := map[string]any{}

	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	set("name", r.Name)
	set("description", r.Description)
	set("logo", r.Logo)
	set("website", r.Website)
	set("category", r.Category)
	set("country", r.Country)
	set("partnership", r.Partnership)
	set("established", r.Established)
	set("status", r.Status)

	if r.Projects != nil {
		out["projects"] = *r.Projects
	}

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

// List handles GET /api/partners.
func (s *Service) List(c *fiber.Ctx) error {
	f := controller.Filter{
		Category: c.Query("category"),
		Country:  c.Query("country"),
		Status:   c.Query("status"),
		Query:    c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.ResourceDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch partners")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/partners.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	p := req.model()
	if err := controller.Create(s.db, p); err != nil {
		return handler.Internal(c, err, "Failed to create partner")
	}

	return handler.OK(c, p)
}

// Replace handles PUT /api/partners.
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
		return s.fail(c, err, "Failed to update partner")
	}

	return handler.OK(c, updated)
}

// Update handles PATCH /api/partners.
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
		return s.fail(c, err, "Failed to update partner")
	}

	return handler.OK(c, updated)
}

// Delete handles DELETE /api/partners: single by id or bulk by ids.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete partners")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	sel := selector(c, req.ID)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := controller.Delete(s.db, sel)
	if err != nil {
		return s.fail(c, err, "Failed to delete partner")
	}

	return handler.OK(c, deleted)
}

func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrPartnerNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Partner not found")
	default:
		return handler.Internal(c, err, fallback)
	}
}
