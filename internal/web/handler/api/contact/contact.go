// Package contact implements the /api/contacts resource routes.
package contact

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/contact"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

// Path is the contacts resource path.
const Path = handler.APIPath + "/contacts"

const missingSelectorMsg = "Missing identifier (?id=... or body.id)"

// Service is the contacts API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the contacts API handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the contacts handler and registers its routes.
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
	ID      string  `json:"id"` // selector fallback only
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Subject *string `json:"subject"`
	Message string  `json:"message" validate:"required"`
	Status  string  `json:"status" validate:"omitempty,oneof=pending read replied"`
}

func (r createRequest) model() *models.Contact {
	status := models.ContactStatus(r.Status)
	if status == "" {
		status = models.ContactStatusPending
	}

	return &models.Contact{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Subject: r.Subject,
		Message: r.Message,
		Status:  status,
	}
}

type patchRequest struct {
	ID      *string `json:"id"` // selector fallback only
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Subject *string `json:"subject"`
	Message *string `json:"message" validate:"omitempty,min=1"`
	Status  *string `json:"status" validate:"omitempty,oneof=pending read replied"`
}

func (r patchRequest) fields() map[string]any {
	out := map[string]any{}

	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	set("name", r.Name)
	set("email", r.Email)
	set("phone", r.Phone)
	set("company", r.Company)
	set("subject", r.Subject)
	set("message", r.Message)
	set("status", r.Status)

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

// List handles GET /api/contacts.
func (s *Service) List(c *fiber.Ctx) error {
	f := controller.Filter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.ResourceDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch contacts")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/contacts, the public contact-form submission.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	msg := req.model()
	if err := controller.Create(s.db, msg); err != nil {
		return handler.Internal(c, err, "Failed to create contact")
	}

	return handler.OK(c, msg)
}

// Replace handles PUT /api/contacts.
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
		return s.fail(c, err, "Failed to update contact")
	}

	return handler.OK(c, updated)
}

// Update handles PATCH /api/contacts, typically status transitions.
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
		return s.fail(c, err, "Failed to update contact")
	}

	return handler.OK(c, updated)
}

// Delete handles DELETE /api/contacts: single by id or bulk by ids.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete contacts")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	sel := selector(c, req.ID)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := controller.Delete(s.db, sel)
	if err != nil {
		return s.fail(c, err, "Failed to delete contact")
	}

	return handler.OK(c, deleted)
}

func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrContactNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Contact not found")
	default:
		return handler.Internal(c, err, fallback)
	}
}
