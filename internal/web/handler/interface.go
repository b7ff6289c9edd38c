package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/config"
	"github.com/xanhenergy/xanhenergy-admin/internal/upload"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB)
}

// StoreService is the interface for a web handler service that works with
// uploaded files.
type StoreService interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *upload.Store)
}
