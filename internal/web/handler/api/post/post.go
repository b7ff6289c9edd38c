// Package post implements the /api/posts resource routes.
package post

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/attach"
	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	controller "github.com/xanhenergy/xanhenergy-admin/internal/db/controller/post"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

const (
	// Path is the posts resource path.
	Path = handler.APIPath + "/posts"

	// FeaturedPath uploads and attaches a post cover image.
	FeaturedPath = Path + "/featured"

	missingSelectorMsg = "Missing identifier (?id=... or ?slug=... or body.id/body.slug)"
)

// Service is the posts API handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	store     *upload.Store
	validator *validator.Validate
}

// Handler is the posts API handler.
var Handler = Service{}

var _ handler.StoreService = (*Service)(nil)

// Init initializes the posts handler and registers its routes.
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
	app.Post(FeaturedPath, s.UploadFeatured)
}

type createRequest struct {
	ID            string  `json:"id"` // selector fallback only, never stored
	Title         string  `json:"title" validate:"required"`
	TitleEn       string  `json:"title_en"`
	Slug          string  `json:"slug" validate:"required"`
	Content       string  `json:"content" validate:"required"`
	ContentEn     string  `json:"content_en"`
	Excerpt       *string `json:"excerpt"`
	ExcerptEn     *string `json:"excerpt_en"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,imageurl"`
	Category      string  `json:"category"`
	Published     bool    `json:"published"`
}

func (r createRequest) model() *models.Post {
	category := r.Category
	if category == "" {
		category = "general"
	}

	return &models.Post{
		Title:         r.Title,
		TitleEn:       r.TitleEn,
		Slug:          r.Slug,
		Content:       r.Content,
		ContentEn:     r.ContentEn,
		Excerpt:       r.Excerpt,
		ExcerptEn:     r.ExcerptEn,
		FeaturedImage: r.FeaturedImage,
		Category:      category,
		Published:     r.Published,
	}
}

type patchRequest struct {
	ID            *string `json:"id"` // selector fallback only
	Title         *string `json:"title" validate:"omitempty,min=1"`
	TitleEn       *string `json:"title_en"`
	Slug          *string `json:"slug" validate:"omitempty,min=1"`
	Content       *string `json:"content" validate:"omitempty,min=1"`
	ContentEn     *string `json:"content_en"`
	Excerpt       *string `json:"excerpt"`
	ExcerptEn     *string `json:"excerpt_en"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,imageurl"`
	Category      *string `json:"category"`
	Published     *bool   `json:"published"`
}

// fields collects the present fields; immutable fields are never included.
func (r patchRequest) fields() map[string]any {
	out := map[string]any{}

	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	set("title", r.Title)
	set("title_en", r.TitleEn)
	set("slug", r.Slug)
	set("content", r.Content)
	set("content_en", r.ContentEn)
	set("excerpt", r.Excerpt)
	set("excerpt_en", r.ExcerptEn)
	set("featuredImage", r.FeaturedImage)
	set("category", r.Category)

	if r.Published != nil {
		out["published"] = *r.Published
	}

	return out
}

type deleteRequest struct {
	ID    string   `json:"id"`
	Slug  string   `json:"slug"`
	IDs   []string `json:"ids"`
	Slugs []string `json:"slugs"`
}

// selector resolves the target post: query id, query slug, body id, body slug.
func selector(c *fiber.Ctx, bodyID, bodySlug string) controller.Selector {
	if id := c.Query("id"); id != "" {
		return controller.Selector{ID: id}
	}

	if slug := c.Query("slug"); slug != "" {
		return controller.Selector{Slug: slug}
	}

	if bodyID != "" {
		return controller.Selector{ID: bodyID}
	}

	return controller.Selector{Slug: bodySlug}
}

// List handles GET /api/posts.
func (s *Service) List(c *fiber.Ctx) error {
	f := controller.Filter{
		Category:  c.Query("category"),
		Published: c.Query("published", "all"),
		Query:     c.Query("q"),
	}

	p := query.Parse(func(key string) string { return c.Query(key) }, query.ResourceDefaults)

	items, pagination, err := controller.List(s.db, f, p)
	if err != nil {
		return handler.Internal(c, err, "Failed to fetch posts")
	}

	return handler.OK(c, fiber.Map{"items": items, "pagination": pagination})
}

// Create handles POST /api/posts.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	post := req.model()
	if err := controller.Create(s.db, post); err != nil {
		if errors.Is(err, controller.ErrSlugConflict) {
			return handler.Fail(c, fiber.StatusConflict, "Slug already exists")
		}

		return handler.Internal(c, err, "Failed to create post")
	}

	return handler.OK(c, post)
}

// Replace handles PUT /api/posts.
func (s *Service) Replace(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	sel := selector(c, req.ID, req.Slug)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.FailValidation(c, err)
	}

	updated, err := controller.Replace(s.db, sel, req.model())
	if err != nil {
		return s.fail(c, err, "Failed to update post")
	}

	return handler.OK(c, updated)
}

// Update handles PATCH /api/posts.
func (s *Service) Update(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Invalid JSON body")
	}

	bodyID, bodySlug := "", ""
	if req.ID != nil {
		bodyID = *req.ID
	}

	if req.Slug != nil {
		bodySlug = *req.Slug
	}

	sel := selector(c, bodyID, bodySlug)
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
		return s.fail(c, err, "Failed to update post")
	}

	return handler.OK(c, updated)
}

// Delete handles DELETE /api/posts: single by selector, bulk by ids or slugs.
func (s *Service) Delete(c *fiber.Ctx) error {
	var req deleteRequest
	if len(c.Body()) > 0 {
		// tolerated like any other malformed body on delete: fall through
		// to the query-string selector
		_ = json.Unmarshal(c.Body(), &req)
	}

	if len(req.IDs) > 0 {
		count, err := controller.DeleteByIDs(s.db, req.IDs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete posts")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	if len(req.Slugs) > 0 {
		count, err := controller.DeleteBySlugs(s.db, req.Slugs)
		if err != nil {
			return handler.Internal(c, err, "Failed to delete posts")
		}

		return handler.OK(c, fiber.Map{"count": count})
	}

	sel := selector(c, req.ID, req.Slug)
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	deleted, err := controller.Delete(s.db, sel)
	if err != nil {
		return s.fail(c, err, "Failed to delete post")
	}

	return handler.OK(c, deleted)
}

// UploadFeatured handles POST /api/posts/featured: multipart upload that
// attaches the file as the post's cover, rolling the file back when the
// attachment fails.
func (s *Service) UploadFeatured(c *fiber.Ctx) error {
	sel := selector(c, c.FormValue("id"), c.FormValue("slug"))
	if sel.Empty() {
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "Missing file")
	}

	dir := c.Query("dir", c.FormValue("dir"))

	var updated *models.Post
	saved, err := attach.Cover(s.store, file, dir, func(url string) error {
		var uErr error
		updated, uErr = controller.Update(s.db, sel, map[string]any{"featuredImage": url})

		return uErr
	})
	if err != nil {
		if errors.Is(err, upload.ErrBadName) {
			return handler.Fail(c, fiber.StatusBadRequest, "Invalid directory name")
		}

		return s.fail(c, err, "Failed to attach featured image")
	}

	return handler.OK(c, fiber.Map{"post": updated, "file": saved})
}

// fail translates controller sentinels into the HTTP error taxonomy.
func (s *Service) fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, controller.ErrMissingSelector):
		return handler.Fail(c, fiber.StatusBadRequest, missingSelectorMsg)
	case errors.Is(err, controller.ErrPostNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Post not found")
	case errors.Is(err, controller.ErrSlugConflict):
		return handler.Fail(c, fiber.StatusConflict, "Slug already exists")
	default:
		return handler.Internal(c, err, fallback)
	}
}
