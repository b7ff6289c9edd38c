// Package dashboard provides the server-rendered content overview page.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/web/handler"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// recentContacts caps the latest-messages table.
	recentContacts = 5
)

// Counts holds the per-entity row counts shown on the dashboard.
type Counts struct {
	Posts           int64
	PublishedPosts  int64
	Projects        int64
	Partners        int64
	Contacts        int64
	PendingContacts int64
	Settings        int64
	Images          int64
}

// Data is the dashboard template payload.
type Data struct {
	Title          string
	Counts         Counts
	RecentContacts []models.Contact
}

// Service is the dashboard handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	var counts Counts

	s.db.Model(&models.Post{}).Count(&counts.Posts)
	s.db.Model(&models.Post{}).Where("published = ?", true).Count(&counts.PublishedPosts)
	s.db.Model(&models.Project{}).Count(&counts.Projects)
	s.db.Model(&models.Partner{}).Count(&counts.Partners)
	s.db.Model(&models.Contact{}).Count(&counts.Contacts)
	s.db.Model(&models.Contact{}).
		Where("status = ?", models.ContactStatusPending).
		Count(&counts.PendingContacts)
	s.db.Model(&models.Setting{}).Count(&counts.Settings)
	s.db.Model(&models.Image{}).Count(&counts.Images)

	recent := []models.Contact{}
	if err := s.db.Order("created_at desc").Limit(recentContacts).Find(&recent).Error; err != nil {
		log.Error().Err(err).Msg("dashboard: failed to load recent contacts")
	}

	title := s.cfg.Title
	if title == "" {
		title = "Xanh Energy Admin"
	}

	return c.Render(TemplateName, Data{
		Title:          title,
		Counts:         counts,
		RecentContacts: recent,
	})
}
