// Package setting implements the /api/settings resource routes.
package setting

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/setting"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

// Path is the settings resource path.
const Path = handler.APIPath + "/settings"

const missingSelectorMsg = "Missing identifier (?id=..., ?key=..., body.id or body.key)"

// Service is the settings API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the settings API handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the settings handler and registers its routes.
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

// writeRequest carries a full setting payload. Value stays raw JSON so
// the codec can tell "null" and "absent" apart and see original types.
type writeRequest struct {
	ID    string          `json:"id"` // selector fallback only
	Key   string          `json:"key" validate:"required"`
	Type  string          `json:"type" validate:"omitempty,oneof=string number boolean json"`
	Value json.RawMessage `json:"value"`
}

func (r writeRequest) rawValue() (any, error) {
	if len(r.Value) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(r.Value, &v); err != nil {
		return nil, err
	}

	return v, nil
}

type patchRequest struct {
	ID    *string         `json:"id"` // selector fallback only
	Key   *string         `json:"key" validate:"omitempty,min=1"`
	Type  *string         `json:"type" validate:"omitempty,oneof=string number boolean json"`
	Value json.RawMessage `json:"value"`
}

type deleteRequest struct {
	ID   string   `json:"id"`
	Key  string   `json:"key"`
	IDs  []string `json:"ids"`
	Keys []string `json:"keys"`
}

func selector(c *fiber.Ctx, bodyID, bodyKey string) controller.Selector {
	if id := c.Query("id"); id != "" {
		return controller.Selector{ID: id}
	}

	if key := c.Query("key"); key != "" {
		return controller.Selector{Key: key}
	}

	if bodyID != "" {
		return controller.Selector{ID: bodyID}
	}

	return controller.Selector{Key: bodyKey}
}

// List handles GET /api/settings. A ?key= query returns the single
// matching setting instead of a page.
func (s *Service) List(c *fiber.Ctx) error {
	if key := c.Query("key"); key != "" {
		setting, err := controller.Get(s.db, controller.Selector{Key: key})
		if err != nil {
			return s.fail(c, err, "Failed to fetch setting")
		}

		return handler.OK(c, setting)
	}

	f := controller.Filter{
		Type:  c.Query("type"),
		Query: c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.SettingDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch settings")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/settings.
func (s *Service) Create(c *fiber.Ctx) error {
	var req writeRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	raw, err := req.rawValue()
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	setting, err := controller.Create(s.db, req.Key, req.Type, raw)
	if err != nil {
		return s.fail(c, err, "Failed to create setting")
	}

	return handler.OK(c, setting)
}

// Replace handles PUT /api/settings.
func (s *Service) Replace(c *fiber.Ctx) error {
	var req writeRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	sel := selector(c, req.ID, req.Key)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	raw, err := req.rawValue()
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	setting, err := controller.Replace(s.db, sel, req.Key, req.Type, raw)
	if err != nil {
		return s.fail(c, err, "Failed to update setting")
	}

	return handler.OK(c, setting)
}

// Update handles PATCH /api/settings. A value sent without a type is
// encoded under the setting's stored type.
func (s *Service) Update(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	bodyID, bodyKey := "", ""
	if req.ID != nil {
		bodyID = *req.ID
	}

	if req.Key != nil {
		bodyKey = *req.Key
	}

	sel := selector(c, bodyID, bodyKey)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	in := controller.UpdateInput{
		Key:  req.Key,
		Type: req.Type,
	}

	if len(req.Value) > 0 {
		var v any
		if err := json.Unmarshal(req.Value, &v); err != nil {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
		}

		in.Value = v
		in.HasValue = true
	}

	if in.Key == nil && in.Type == nil && !in.HasValue {
		return handler.Fail(c, fiber.StatusUnprocessableEntity, "PATCH requires at least one field")
	}

	setting, err := controller.Update(s.db, sel, in)
	if err != nil {
		return s.fail(c, err, "Failed to update setting")
	}

	return handler.OK(c, setting)
}

// Delete handles DELETE /api/settings: single by id or key, bulk by ids
// or keys.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete settings")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	if len(req.Keys) > 0 {
		count, err := controller.DeleteByKeys(s.db, req.Keys)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete settings")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	sel := selector(c, req.ID, req.Key)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := controller.Delete(s.db, sel)
	if err != nil {
		return s.fail(c, err, "Failed to delete setting")
	}

	return handler.OK(c, deleted)
}

func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrSettingNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Setting not found")
	case errors.Is(err, controller.ErrKeyConflict):
		return handler.Fail(c, fiber.StatusConflict, "Key already exists")
	case errors.Is(err, controller.ErrInvalidNumber),
		errors.Is(err, controller.ErrInvalidBoolean),
		errors.Is(err, controller.ErrInvalidJSON):
		return handler.Fail(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return handler.Internal(c, err, fallback)
	}
}
